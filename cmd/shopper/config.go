package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// shopperConfig 命令行购物流程配置（环境变量，可由 .env 提供）
type shopperConfig struct {
	APIURL   string        `env:"SHOPPER_API_URL" envDefault:"http://localhost:8080"`
	Timeout  time.Duration `env:"SHOPPER_TIMEOUT" envDefault:"10s"`
	Language string        `env:"SHOPPER_LANGUAGE" envDefault:"en"`
	LogMode  string        `env:"SHOPPER_LOG_MODE" envDefault:"debug"`

	Name     string `env:"SHOPPER_NAME" envDefault:"Demo Shopper"`
	Email    string `env:"SHOPPER_EMAIL,required"`
	Password string `env:"SHOPPER_PASSWORD,required"`
	Register bool   `env:"SHOPPER_REGISTER" envDefault:"false"`

	ProductIDs []uint `env:"SHOPPER_PRODUCT_IDS" envSeparator:"," envDefault:"1"`
	Shipping   string `env:"SHOPPER_SHIPPING" envDefault:"standard"`

	Address string `env:"SHOPPER_ADDRESS" envDefault:"1 Main St"`
	City    string `env:"SHOPPER_CITY" envDefault:"Springfield"`
	ZipCode string `env:"SHOPPER_ZIP" envDefault:"12345"`
	Country string `env:"SHOPPER_COUNTRY"`
	Phone   string `env:"SHOPPER_PHONE"`

	CardNumber string `env:"SHOPPER_CARD_NUMBER" envDefault:"4242424242424242"`
	CardExpiry string `env:"SHOPPER_CARD_EXPIRY" envDefault:"1230"`
	CardCVV    string `env:"SHOPPER_CARD_CVV" envDefault:"123"`
}

func loadConfig() (shopperConfig, error) {
	cfg, err := env.ParseAs[shopperConfig]()
	if err != nil {
		return shopperConfig{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return shopperConfig{}, err
	}
	return cfg, nil
}

func (c shopperConfig) validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("missing SHOPPER_API_URL environment variable")
	}
	if len(c.ProductIDs) == 0 {
		return fmt.Errorf("missing SHOPPER_PRODUCT_IDS environment variable")
	}
	for _, id := range c.ProductIDs {
		if id == 0 {
			return fmt.Errorf("invalid product id 0 in SHOPPER_PRODUCT_IDS")
		}
	}
	return nil
}
