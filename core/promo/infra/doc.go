// Package infra contém implementações concretas para os contratos do pacote domain.
//
// Exemplos:
//   - Registry: categorias em memória com lock por categoria
//   - LimiterStore: token bucket por chamador usando golang.org/x/time/rate
//   - ChanPool: semáforo simples para limitar renderizações simultâneas
//   - Code128Renderer: PNG Code 128 via github.com/boombuler/barcode
//   - MemoryStatsStore / RedisStatsStore: estatísticas de disparo
package infra
