package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/models"
)

type fakeCart struct {
	items    models.CartItems
	clearErr error
	clears   int
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeCart) TotalPrice() models.Money { return f.items.TotalPrice() }
func (f *fakeCart) TotalItems() int          { return f.items.TotalQuantity() }

func (f *fakeCart) ClearCart(_ context.Context) error {
	f.clears++
	if f.release != nil {
		f.started <- struct{}{}
		<-f.release
	}
	if f.clearErr != nil {
		return f.clearErr
	}
	f.items = models.CartItems{}
	return nil
}

func twoShirts() models.CartItems {
	return models.CartItems{{ProductID: 2, Name: "Organic Cotton T-Shirt", Price: models.MustMoney("29.99"), Quantity: 2}}
}

func testOptions() []models.ShippingOption {
	return []models.ShippingOption{
		{ID: "standard", Label: "Standard Shipping", Cost: models.MustMoney("0.00")},
		{ID: "express", Label: "Express Shipping", Cost: models.MustMoney("15.00")},
	}
}

func validShipping() ShippingForm {
	return ShippingForm{FullName: "Ana", Address: "1 Main St", City: "Springfield", ZipCode: "12345"}
}

func toPayment(t *testing.T, s *Sequencer) {
	t.Helper()
	if err := s.SetShipping(validShipping()); err != nil {
		t.Fatalf("set shipping failed: %v", err)
	}
	if err := s.Next(context.Background()); err != nil {
		t.Fatalf("next failed: %v", err)
	}
	for _, err := range []error{
		s.SetCardName("Ana"),
		s.SetCardNumber("4242424242424242"),
		s.SetExpiry("1229"),
		s.SetCVV("123"),
	} {
		if err != nil {
			t.Fatalf("fill payment failed: %v", err)
		}
	}
}

func TestSequencerPrefillAndDefaults(t *testing.T) {
	s := NewSequencer(&fakeCart{}, nil, Contact{Name: "Ana", Email: "ana@test.com"})
	form := s.Shipping()
	if form.FullName != "Ana" || form.Email != "ana@test.com" || form.Country != DefaultCountry {
		t.Fatalf("unexpected prefill: %+v", form)
	}
	if s.Step() != StepShipping {
		t.Fatalf("want shipping step, got %s", s.Step())
	}
	opt := s.SelectedShippingOption()
	if opt.ID != "standard" || opt.Cost.String() != "0.00" {
		t.Fatalf("unexpected default option: %+v", opt)
	}
	if len(s.ShippingOptions()) != 2 {
		t.Fatalf("expected fallback shipping options")
	}
}

func TestSequencerShippingValidation(t *testing.T) {
	s := NewSequencer(&fakeCart{}, testOptions(), Contact{})
	form := validShipping()
	form.City = "   "
	if err := s.SetShipping(form); err != nil {
		t.Fatalf("set shipping failed: %v", err)
	}
	err := s.Next(context.Background())
	if !errors.Is(err, ErrShippingIncomplete) {
		t.Fatalf("want ErrShippingIncomplete, got %v", err)
	}
	if !strings.Contains(err.Error(), "city") {
		t.Fatalf("error should name the missing field: %v", err)
	}
	if s.Step() != StepShipping {
		t.Fatalf("step must not change on validation failure")
	}
	if err := s.SetCardName("x"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("payment edits require payment step, got %v", err)
	}
	if err := s.SelectShippingOption("overnight"); !errors.Is(err, ErrUnknownShippingOption) {
		t.Fatalf("want ErrUnknownShippingOption, got %v", err)
	}
}

func TestSequencerPaymentValidation(t *testing.T) {
	s := NewSequencer(&fakeCart{items: twoShirts()}, testOptions(), Contact{})
	if err := s.SetShipping(validShipping()); err != nil {
		t.Fatalf("set shipping failed: %v", err)
	}
	if err := s.Next(context.Background()); err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if err := s.SetShipping(validShipping()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("shipping is read-only after advancing, got %v", err)
	}
	if err := s.SetCardName("Ana"); err != nil {
		t.Fatalf("set card name failed: %v", err)
	}
	if err := s.Next(context.Background()); !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("want ErrPaymentIncomplete, got %v", err)
	}
	if s.Step() != StepPayment {
		t.Fatalf("step must stay on payment")
	}
}

func TestCompleteOrderSnapshotsBeforeClear(t *testing.T) {
	cart := &fakeCart{items: twoShirts()}
	s := NewSequencer(cart, testOptions(), Contact{})
	if err := s.SelectShippingOption("express"); err != nil {
		t.Fatalf("select express failed: %v", err)
	}
	s.now = func() time.Time { return time.UnixMilli(1700000123456) }
	toPayment(t, s)

	summary, err := s.CompleteOrder(context.Background())
	if err != nil {
		t.Fatalf("complete order failed: %v", err)
	}
	if summary.Subtotal.String() != "59.98" || summary.Total.String() != "74.98" || summary.ItemCount != 2 {
		t.Fatalf("unexpected summary: subtotal=%s total=%s items=%d", summary.Subtotal, summary.Total, summary.ItemCount)
	}
	if summary.OrderNumber != "ORD-00123456" {
		t.Fatalf("unexpected order number: %s", summary.OrderNumber)
	}
	if cart.TotalItems() != 0 || cart.clears != 1 {
		t.Fatalf("cart should be cleared exactly once")
	}
	if s.Step() != StepConfirmation {
		t.Fatalf("want confirmation, got %s", s.Step())
	}
	if got := s.Summary(); got == nil || got.Total.String() != "74.98" {
		t.Fatalf("confirmation total should survive the clear, got %+v", got)
	}

	if _, err := s.CompleteOrder(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second submit want ErrInvalidTransition, got %v", err)
	}
	if err := s.Next(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("no step after confirmation, got %v", err)
	}

	if err := s.Finish(); err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if s.Step() != StepShipping || s.Summary() != nil || s.Payment() != (PaymentForm{}) {
		t.Fatalf("finish should reset the flow")
	}
	if s.SelectedShippingOption().ID != "standard" {
		t.Fatalf("shipping option should reset to standard")
	}
}

func TestCompleteOrderClearFailureStaysOnPayment(t *testing.T) {
	boom := errors.New("network down")
	cart := &fakeCart{items: twoShirts(), clearErr: boom}
	s := NewSequencer(cart, testOptions(), Contact{})
	toPayment(t, s)

	_, err := s.CompleteOrder(context.Background())
	if !errors.Is(err, ErrOrderFailed) || !errors.Is(err, boom) {
		t.Fatalf("want wrapped ErrOrderFailed, got %v", err)
	}
	if s.Step() != StepPayment || s.Summary() != nil {
		t.Fatalf("failed clear must not advance or store a summary")
	}
	if cart.TotalItems() != 2 {
		t.Fatalf("cart should be untouched")
	}

	cart.clearErr = nil
	if err := s.Next(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if s.Step() != StepConfirmation {
		t.Fatalf("retry should reach confirmation")
	}
}

func TestCompleteOrderRejectsDoubleSubmit(t *testing.T) {
	cart := &fakeCart{items: twoShirts(), started: make(chan struct{}), release: make(chan struct{})}
	s := NewSequencer(cart, testOptions(), Contact{})
	toPayment(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.CompleteOrder(context.Background())
		done <- err
	}()
	<-cart.started

	if !s.Submitting() {
		t.Fatalf("expected submitting state")
	}
	if _, err := s.CompleteOrder(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("concurrent submit want ErrInvalidTransition, got %v", err)
	}
	if err := s.Close(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("close while submitting want ErrInvalidTransition, got %v", err)
	}
	if err := s.SetCVV("999"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("payment edits locked while submitting, got %v", err)
	}

	close(cart.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if cart.clears != 1 {
		t.Fatalf("clear should run once, got %d", cart.clears)
	}
}

func TestCloseDiscardsDraft(t *testing.T) {
	s := NewSequencer(&fakeCart{items: twoShirts()}, testOptions(), Contact{Name: "Ana"})
	toPayment(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if s.Step() != StepShipping {
		t.Fatalf("close should reset to shipping")
	}
	form := s.Shipping()
	if form.Address != "" || form.FullName != "Ana" {
		t.Fatalf("close should discard draft and keep prefill, got %+v", form)
	}
	if s.Payment() != (PaymentForm{}) {
		t.Fatalf("payment should be discarded")
	}
}
