package dispatch

import (
	"context"
	"fmt"
	"strings"

	"promo-gateway/core/promo/application"
	"promo-gateway/core/promo/domain"
)

// Commands agrupa as dependências dos comandos embutidos.
type Commands struct {
	Registry domain.CategoryRegistry
	Render   application.RenderService
	Cooldown application.CooldownService
}

// Install registra os comandos embutidos e o fallback de disparo de categoria.
func (c Commands) Install(d *Dispatcher) {
	d.Handle("menu", "!menu", c.menu(d))
	d.Handle("barcode", "!barcode <store> <identifier> [price]", c.barcode)
	d.Handle("stores", "!stores", c.stores)
	d.Handle("promos", "!promos", c.promos)
	d.Handle("newcategory", "!newcategory <name> <hours>", c.newCategory(d))
	d.Handle("guide", "!guide <name> <text>", c.guide(d))
	d.Fallback(c.trigger)
}

func usage(format string) error {
	return fmt.Errorf("%w: %s", ErrUsage, format)
}

func (c Commands) menu(d *Dispatcher) Handler {
	return func(context.Context, Request) (Result, error) {
		var b strings.Builder
		b.WriteString("**Main Menu**\n")
		for _, u := range d.Usages() {
			b.WriteString("`" + u + "`\n")
		}
		b.WriteString("`!<category>` triggers a promo code")
		return Result{Text: b.String()}, nil
	}
}

func (c Commands) barcode(ctx context.Context, req Request) (Result, error) {
	if len(req.Args) < 2 || len(req.Args) > 3 {
		return Result{}, usage("!barcode <store> <identifier> [price]")
	}
	price := ""
	if len(req.Args) == 3 {
		price = req.Args[2]
	}

	payload, img, err := c.Render.EncodeAndRender(ctx, req.Args[0], req.Args[1], price)
	if err != nil {
		return Result{}, err
	}
	return Result{Payload: payload, Image: img, ImageName: "barcode.png"}, nil
}

func (c Commands) stores(context.Context, Request) (Result, error) {
	var b strings.Builder
	b.WriteString("**Stores**\n")
	for _, p := range domain.Profiles() {
		if p.RequiresPrice() {
			fmt.Fprintf(&b, "`%s` identifier up to %d digits + price up to %d digits\n", p.Name, p.MaxIdentifierLength(), p.PriceLength)
		} else {
			fmt.Fprintf(&b, "`%s` identifier up to %d digits, no price\n", p.Name, p.MaxIdentifierLength())
		}
	}
	return Result{Text: strings.TrimRight(b.String(), "\n")}, nil
}

func (c Commands) promos(context.Context, Request) (Result, error) {
	var b strings.Builder
	for v := range c.Registry.List() {
		guide := v.Guide
		if guide == "" {
			guide = "No guide available."
		}
		fmt.Fprintf(&b, "🎁 %s\nTrigger Command: `!%s`\nCooldown: %sh\nGuide: %s\n\n",
			capitalize(v.Name), v.Name, formatHours(v.Cooldown), guide)
	}
	if b.Len() == 0 {
		return Result{Text: "❌ No promo codes available."}, nil
	}
	return Result{Text: "📜 Promo Codes\n\n" + strings.TrimRight(b.String(), "\n")}, nil
}

// reserved impede categorias com nome de comando: "!menu" nunca chegaria ao
// fallback, então a categoria ficaria impossível de disparar pelo chat.
func reserved(d *Dispatcher, name string) error {
	if d.Reserved(name) {
		return fmt.Errorf("%w: %q is a command name", domain.ErrInvalidCategory, name)
	}
	return nil
}

func (c Commands) newCategory(d *Dispatcher) Handler {
	return func(_ context.Context, req Request) (Result, error) {
		if len(req.Args) != 2 {
			return Result{}, usage("!newcategory <name> <hours>")
		}
		name := req.Args[0]
		if err := reserved(d, name); err != nil {
			return Result{}, err
		}
		cooldown, err := application.ParseCooldownHours(req.Args[1])
		if err != nil {
			return Result{}, err
		}
		if err := c.Registry.Register(name, cooldown); err != nil {
			return Result{}, err
		}
		return Result{Text: fmt.Sprintf("✅ Category '%s' added with a cooldown of %s hours.", name, formatHours(cooldown))}, nil
	}
}

func (c Commands) guide(d *Dispatcher) Handler {
	return func(_ context.Context, req Request) (Result, error) {
		if len(req.Args) < 1 {
			return Result{}, usage("!guide <name> <text>")
		}
		name := req.Args[0]
		if err := reserved(d, name); err != nil {
			return Result{}, err
		}
		if err := c.Registry.AttachGuide(name, strings.Join(req.Args[1:], " ")); err != nil {
			return Result{}, err
		}
		return Result{Text: fmt.Sprintf("✅ Guide added for '%s'.", name)}, nil
	}
}

func (c Commands) trigger(ctx context.Context, req Request) (Result, error) {
	dec, err := c.Cooldown.Trigger(ctx, req.Caller, req.Command)
	if err != nil {
		return Result{}, err
	}
	if !dec.Allowed {
		return Result{
			Text:     fmt.Sprintf("⏳ %s is on cooldown, try again in %s.", capitalize(req.Command), formatWait(dec.RetryAfter)),
			Cooldown: dec.RetryAfter,
		}, nil
	}

	text := fmt.Sprintf("🎁 %s triggered.", capitalize(req.Command))
	if v, ok := c.Registry.Get(req.Command); ok && v.Guide != "" {
		text += "\nGuide: " + v.Guide
	}
	return Result{Text: text}, nil
}
