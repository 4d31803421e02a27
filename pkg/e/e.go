package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrUnknownStoreDriver   = fmt.Errorf("unknown store driver")

	// Ошибки доменной модели
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrValidation      = fmt.Errorf("validation failed")

	// Ошибки параметров поиска
	ErrInvalidSortField  = fmt.Errorf("invalid sort field")
	ErrInvalidDirection  = fmt.Errorf("invalid sort direction")
	ErrInvalidPagination = fmt.Errorf("invalid pagination")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
