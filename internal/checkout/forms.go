package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// DefaultCountry 收货国家默认值
const DefaultCountry = "United States"

const (
	maxCardDigits   = 16
	maxExpiryDigits = 4
	maxCVVDigits    = 3
)

// ShippingForm 收货信息
type ShippingForm struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	ZipCode  string `json:"zipCode" validate:"required"`
	Country  string `json:"country"`
}

// PaymentForm 支付信息（不做卡号校验）
type PaymentForm struct {
	CardName   string `json:"cardName" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (f ShippingForm) normalized() ShippingForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.ZipCode = strings.TrimSpace(f.ZipCode)
	f.Country = strings.TrimSpace(f.Country)
	if f.Country == "" {
		f.Country = DefaultCountry
	}
	return f
}

// Validate 校验姓名、地址、城市、邮编非空
func (f ShippingForm) Validate() error {
	return validateForm(f.normalized(), ErrShippingIncomplete)
}

// Validate 校验四个字段均非空
func (f PaymentForm) Validate() error {
	f.CardName = strings.TrimSpace(f.CardName)
	return validateForm(f, ErrPaymentIncomplete)
}

func validateForm(form interface{}, sentinel error) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: missing %s", sentinel, strings.Join(fields, ", "))
}

// FormatCardNumber 卡号按 4 位分组；超过 16 位时保留 previous
func FormatCardNumber(previous, input string) string {
	digits := digitsOnly(input)
	if len(digits) > maxCardDigits {
		return previous
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry 过期时间格式化为 MM/YY，多余数字截断
func FormatExpiry(input string) string {
	digits := digitsOnly(input)
	if len(digits) > maxExpiryDigits {
		digits = digits[:maxExpiryDigits]
	}
	if len(digits) < 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// FormatCVV 仅保留数字；超过 3 位时保留 previous
func FormatCVV(previous, input string) string {
	digits := digitsOnly(input)
	if len(digits) > maxCVVDigits {
		return previous
	}
	return digits
}

func digitsOnly(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
