// Package dispatch liga tokens de comando (ex.: "!barcode", "!newcategory") a
// handlers puros do tipo (ctx, Request) -> (Result, error).
//
// Ele não conhece nenhum framework de chat: quem chama entrega a linha já
// recebida e decide como mostrar o Result (texto, imagem) ou o erro.
// AwaitInput cobre a espera da próxima linha com prazo.
package dispatch
