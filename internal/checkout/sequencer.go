// Package checkout 三步结算流程：收货信息、支付信息、订单确认
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/service"

	"go.uber.org/zap"
)

var (
	// ErrShippingIncomplete 收货信息缺少必填项
	ErrShippingIncomplete = errors.New("shipping details incomplete")
	// ErrPaymentIncomplete 支付信息缺少必填项
	ErrPaymentIncomplete = errors.New("payment details incomplete")
	// ErrOrderFailed 下单失败（清空购物车未成功）
	ErrOrderFailed = errors.New("order could not be completed")
	// ErrInvalidTransition 当前步骤不允许该操作
	ErrInvalidTransition = errors.New("invalid checkout transition")
	// ErrUnknownShippingOption 配送方式不存在
	ErrUnknownShippingOption = errors.New("unknown shipping option")
)

// Step 结算步骤
type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

// Cart 结算依赖的购物车能力
type Cart interface {
	TotalPrice() models.Money
	TotalItems() int
	ClearCart(ctx context.Context) error
}

// Contact 用于预填收货信息的登录用户
type Contact struct {
	Name  string
	Email string
}

// OrderSummary 下单时的快照，清空购物车后仍然有效
type OrderSummary struct {
	OrderNumber    string
	ItemCount      int
	Subtotal       models.Money
	ShippingOption models.ShippingOption
	Total          models.Money
	PlacedAt       time.Time
}

// Sequencer 结算状态机
type Sequencer struct {
	cart    Cart
	options []models.ShippingOption
	contact Contact
	log     *zap.SugaredLogger
	now     func() time.Time

	mu         sync.Mutex
	step       Step
	shipping   ShippingForm
	payment    PaymentForm
	optionID   string
	submitting bool
	summary    *OrderSummary
}

// NewSequencer 创建结算流程；options 为空时使用默认配送方式
func NewSequencer(cart Cart, options []models.ShippingOption, contact Contact) *Sequencer {
	if len(options) == 0 {
		options = service.ShippingOptions(config.CheckoutConfig{})
	}
	copied := make([]models.ShippingOption, len(options))
	copy(copied, options)
	s := &Sequencer{
		cart:    cart,
		options: copied,
		contact: contact,
		log:     logger.SW("component", "checkout"),
		now:     time.Now,
	}
	s.reset()
	return s
}

func (s *Sequencer) reset() {
	s.step = StepShipping
	s.shipping = ShippingForm{
		FullName: s.contact.Name,
		Email:    s.contact.Email,
		Country:  DefaultCountry,
	}
	s.payment = PaymentForm{}
	s.optionID = s.defaultOptionID()
	s.summary = nil
}

func (s *Sequencer) defaultOptionID() string {
	for _, opt := range s.options {
		if opt.ID == constants.ShippingOptionStandard {
			return opt.ID
		}
	}
	return s.options[0].ID
}

// Step 当前步骤
func (s *Sequencer) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Submitting 是否正在提交订单
func (s *Sequencer) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// ShippingOptions 可选配送方式
func (s *Sequencer) ShippingOptions() []models.ShippingOption {
	result := make([]models.ShippingOption, len(s.options))
	copy(result, s.options)
	return result
}

// Shipping 当前收货信息
func (s *Sequencer) Shipping() ShippingForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

// SetShipping 填写收货信息，仅收货步骤可用
func (s *Sequencer) SetShipping(form ShippingForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepShipping {
		return fmt.Errorf("%w: shipping form is read-only in %s step", ErrInvalidTransition, s.step)
	}
	if form.Country == "" {
		form.Country = DefaultCountry
	}
	s.shipping = form
	return nil
}

// SelectShippingOption 选择配送方式
func (s *Sequencer) SelectShippingOption(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepShipping {
		return fmt.Errorf("%w: shipping option is read-only in %s step", ErrInvalidTransition, s.step)
	}
	if _, ok := s.findOption(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownShippingOption, id)
	}
	s.optionID = id
	return nil
}

// SelectedShippingOption 当前配送方式
func (s *Sequencer) SelectedShippingOption() models.ShippingOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	opt, _ := s.findOption(s.optionID)
	return opt
}

func (s *Sequencer) findOption(id string) (models.ShippingOption, bool) {
	for _, opt := range s.options {
		if opt.ID == id {
			return opt, true
		}
	}
	return models.ShippingOption{}, false
}

// Payment 当前支付信息
func (s *Sequencer) Payment() PaymentForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payment
}

// SetCardName 填写持卡人
func (s *Sequencer) SetCardName(name string) error {
	return s.editPayment(func(p *PaymentForm) { p.CardName = name })
}

// SetCardNumber 按输入格式化卡号
func (s *Sequencer) SetCardNumber(input string) error {
	return s.editPayment(func(p *PaymentForm) { p.CardNumber = FormatCardNumber(p.CardNumber, input) })
}

// SetExpiry 按输入格式化有效期
func (s *Sequencer) SetExpiry(input string) error {
	return s.editPayment(func(p *PaymentForm) { p.Expiry = FormatExpiry(input) })
}

// SetCVV 按输入格式化 CVV
func (s *Sequencer) SetCVV(input string) error {
	return s.editPayment(func(p *PaymentForm) { p.CVV = FormatCVV(p.CVV, input) })
}

func (s *Sequencer) editPayment(edit func(p *PaymentForm)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepPayment || s.submitting {
		return fmt.Errorf("%w: payment form is read-only in %s step", ErrInvalidTransition, s.step)
	}
	edit(&s.payment)
	return nil
}

// Next 前进一步：收货 → 支付；支付步骤时提交订单
func (s *Sequencer) Next(ctx context.Context) error {
	s.mu.Lock()
	step := s.step
	if step == StepShipping {
		defer s.mu.Unlock()
		if err := s.shipping.Validate(); err != nil {
			return err
		}
		s.shipping = s.shipping.normalized()
		s.step = StepPayment
		return nil
	}
	s.mu.Unlock()

	if step == StepPayment {
		_, err := s.CompleteOrder(ctx)
		return err
	}
	return fmt.Errorf("%w: no step after %s", ErrInvalidTransition, step)
}

// CompleteOrder 快照金额后清空购物车，成功后进入确认步骤
func (s *Sequencer) CompleteOrder(ctx context.Context) (*OrderSummary, error) {
	s.mu.Lock()
	if s.step != StepPayment || s.submitting {
		step, submitting := s.step, s.submitting
		s.mu.Unlock()
		if submitting {
			return nil, fmt.Errorf("%w: order already submitting", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("%w: cannot complete order in %s step", ErrInvalidTransition, step)
	}
	if err := s.payment.Validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	option, _ := s.findOption(s.optionID)
	s.submitting = true
	s.mu.Unlock()

	// 必须在清空购物车之前取快照
	subtotal := s.cart.TotalPrice()
	itemCount := s.cart.TotalItems()
	total := subtotal.Add(option.Cost)

	clearErr := s.cart.ClearCart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if clearErr != nil {
		s.log.Warnw("checkout_clear_cart_failed", "item_count", itemCount, "total", total.String(), "error", clearErr)
		return nil, fmt.Errorf("%w: %w", ErrOrderFailed, clearErr)
	}

	placedAt := s.now()
	summary := &OrderSummary{
		OrderNumber:    orderNumber(placedAt),
		ItemCount:      itemCount,
		Subtotal:       subtotal,
		ShippingOption: option,
		Total:          total,
		PlacedAt:       placedAt,
	}
	s.summary = summary
	s.step = StepConfirmation
	s.log.Infow("checkout_order_completed", "order_no", summary.OrderNumber, "item_count", itemCount, "total", total.String(), "shipping", option.ID)
	copied := *summary
	return &copied, nil
}

// Summary 确认页快照，未完成时返回 nil
func (s *Sequencer) Summary() *OrderSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return nil
	}
	copied := *s.summary
	return &copied
}

// Close 关闭结算，丢弃已填写数据并回到收货步骤；提交中不可关闭
func (s *Sequencer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return fmt.Errorf("%w: order is submitting", ErrInvalidTransition)
	}
	s.reset()
	return nil
}

// Finish 确认后结束流程，回到收货步骤
func (s *Sequencer) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepConfirmation {
		return fmt.Errorf("%w: finish requires confirmation, current %s", ErrInvalidTransition, s.step)
	}
	s.reset()
	return nil
}

func orderNumber(t time.Time) string {
	millis := strconv.FormatInt(t.UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return constants.OrderNoPrefix + millis
}
