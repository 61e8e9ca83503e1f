package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dujiao-next/storefront/internal/checkout"
	"github.com/dujiao-next/storefront/internal/client"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
)

// run 登录 → 加购 → 结算，全部经由购物车镜像与结算流程
func run(ctx context.Context, cfg shopperConfig, out io.Writer) error {
	return runWith(ctx, cfg, nil, out)
}

func runWith(ctx context.Context, cfg shopperConfig, httpClient *http.Client, out io.Writer) error {
	api := client.NewAPIClient(client.Options{
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.Timeout,
		HTTPClient: httpClient,
		Language:   cfg.Language,
	})
	session := client.NewSession()
	cart := client.NewCartCache(api, session)
	defer cart.Close()

	auth, err := authenticate(ctx, api, cfg)
	if err != nil {
		return err
	}
	session.SetIdentity(ctx, auth.Token, auth.User)
	defer session.Clear(context.Background())
	fmt.Fprintf(out, "Signed in as %s <%s>\n", auth.User.Name, auth.User.Email)
	if n := cart.TotalItems(); n > 0 {
		fmt.Fprintf(out, "Restored cart with %d item(s), %s\n", n, cart.TotalPriceString())
	}

	products, err := api.Products(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, id := range cfg.ProductIDs {
		product, ok := byID[id]
		if !ok {
			return fmt.Errorf("product %d not in catalog", id)
		}
		if err := cart.AddToCart(ctx, product, 1); err != nil {
			return fmt.Errorf("add product %d: %w", id, err)
		}
		fmt.Fprintf(out, "Added %s ($%s)\n", product.Name, product.Price)
	}
	printCart(out, cart)

	options, err := api.ShippingOptions(ctx)
	if err != nil {
		logger.Warnw("shopper_shipping_options_failed", "error", err)
		options = nil
	}
	seq := checkout.NewSequencer(cart, options, checkout.Contact{Name: auth.User.Name, Email: auth.User.Email})
	summary, err := completeCheckout(ctx, seq, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Order %s confirmed: %d item(s), subtotal $%s, %s $%s, total $%s\n",
		summary.OrderNumber, summary.ItemCount, summary.Subtotal,
		summary.ShippingOption.Label, summary.ShippingOption.Cost, summary.Total)
	fmt.Fprintf(out, "Cart now has %d item(s)\n", cart.TotalItems())
	return seq.Finish()
}

func authenticate(ctx context.Context, api *client.APIClient, cfg shopperConfig) (*client.AuthResponse, error) {
	if cfg.Register {
		auth, err := api.Register(ctx, cfg.Name, cfg.Email, cfg.Password)
		if err == nil {
			return auth, nil
		}
		if client.StatusOf(err) != http.StatusBadRequest {
			return nil, fmt.Errorf("register: %w", err)
		}
		logger.Infow("shopper_register_skipped", "email", cfg.Email, "error", err)
	}
	auth, err := api.Login(ctx, cfg.Email, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return auth, nil
}

func completeCheckout(ctx context.Context, seq *checkout.Sequencer, cfg shopperConfig) (*checkout.OrderSummary, error) {
	shipping := seq.Shipping()
	shipping.Address = cfg.Address
	shipping.City = cfg.City
	shipping.ZipCode = cfg.ZipCode
	shipping.Phone = cfg.Phone
	if cfg.Country != "" {
		shipping.Country = cfg.Country
	}
	if err := seq.SetShipping(shipping); err != nil {
		return nil, err
	}
	if err := seq.SelectShippingOption(cfg.Shipping); err != nil {
		return nil, err
	}
	if err := seq.Next(ctx); err != nil {
		return nil, err
	}

	cardName := shipping.FullName
	for _, set := range []func() error{
		func() error { return seq.SetCardName(cardName) },
		func() error { return seq.SetCardNumber(cfg.CardNumber) },
		func() error { return seq.SetExpiry(cfg.CardExpiry) },
		func() error { return seq.SetCVV(cfg.CardCVV) },
	} {
		if err := set(); err != nil {
			return nil, err
		}
	}
	if err := seq.Next(ctx); err != nil {
		return nil, err
	}
	return seq.Summary(), nil
}

func printCart(out io.Writer, cart *client.CartCache) {
	for _, item := range cart.Items() {
		fmt.Fprintf(out, "  %-32s x%d  $%s\n", item.Name, item.Quantity, item.Subtotal())
	}
	fmt.Fprintf(out, "Cart: %d item(s), $%s\n", cart.TotalItems(), cart.TotalPriceString())
}
