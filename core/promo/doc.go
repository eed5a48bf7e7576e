// Package promo fornece o adapter HTTP (net/http) do núcleo de promoções:
// códigos de barras por loja e categorias com cooldown.
//
// Visão geral (camadas):
//
//   - domain: perfis de loja, categorias, erros e contratos (sem net/http)
//   - application: casos de uso (Encode, CooldownService, RenderService, throttle)
//   - infra: implementações concretas (registro em memória, token bucket,
//     semáforo, renderer Code 128, estatísticas em memória/Redis)
//   - dispatch: tabela de comandos de chat (token -> handler)
//   - promo (este pacote): rotas HTTP, middlewares de throttle/concorrência,
//     métricas Prometheus e tradução de erros para status
//
// Fluxo de uma requisição:
//
//  1. Extrai a chave do chamador (header/XFF/IP) e aplica o throttle
//  2. Limita concorrência global
//  3. Chama a camada application e traduz o resultado para status/headers
//
// Variáveis de ambiente do binário (cmd/promogate) controlam o comportamento,
// como RATE_RPS, RATE_BURST, CONCURRENCY_MAX e RENDER_CONCURRENCY.
package promo
