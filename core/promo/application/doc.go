// Package application contém os casos de uso do núcleo de promoções.
//
// Ele depende apenas do pacote domain e não conhece net/http nem o chat.
// Ex.: Encode(loja, id, preço) retorna o payload; CooldownService.Trigger
// retorna uma Decision (allow/deny + retry-after).
package application
