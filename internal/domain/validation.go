package domain

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
)

// ValidationError описывает одно нарушение правил валидации.
type ValidationError struct {
	Message string
}

func (v ValidationError) Error() string {
	return v.Message
}

// ValidationHandler накапливает ошибки валидации без прерывания потока управления.
type ValidationHandler interface {
	Append(err ValidationError)
	Errors() []ValidationError
	HasErrors() bool
}

// Notification собирает все найденные ошибки валидации.
type Notification struct {
	errs []ValidationError
}

func NewNotification() *Notification {
	return &Notification{}
}

func (n *Notification) Append(err ValidationError) {
	n.errs = append(n.errs, err)
}

func (n *Notification) Errors() []ValidationError {
	out := make([]ValidationError, len(n.errs))
	copy(out, n.errs)
	return out
}

func (n *Notification) HasErrors() bool {
	return len(n.errs) > 0
}

// FirstError возвращает первую ошибку, если она есть.
func (n *Notification) FirstError() (ValidationError, bool) {
	if len(n.errs) == 0 {
		return ValidationError{}, false
	}

	return n.errs[0], true
}

// Err возвращает nil, если ошибок нет, иначе ошибку, совместимую с errors.Is(err, e.ErrValidation).
func (n *Notification) Err() error {
	if !n.HasErrors() {
		return nil
	}

	msgs := make([]string, 0, len(n.errs))
	for _, v := range n.errs {
		msgs = append(msgs, v.Message)
	}

	return fmt.Errorf("%w: %s", e.ErrValidation, strings.Join(msgs, "; "))
}
