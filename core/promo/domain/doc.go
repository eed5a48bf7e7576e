// Package domain define os tipos e contratos do núcleo de promoções:
// perfis de loja (formato do payload de código de barras), categorias com
// cooldown e os erros que classificam falhas de validação.
//
// Este pacote não depende de net/http, de renderização de imagem nem de
// implementações concretas. A tabela de perfis é estática e imutável.
package domain
