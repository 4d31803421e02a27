package pgdb

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
)

const categoryColumns = "id, name, description, active, created_at, updated_at, deleted_at"

// categoryFieldColumns сопоставляет поля агрегата колонкам таблицы categories.
// Всё, чего нет в карте, в SQL не попадает.
var categoryFieldColumns = map[string]string{
	domain.CategoryFieldName:        "name",
	domain.CategoryFieldDescription: "description",
	domain.CategoryFieldActive:      "active",
	domain.CategoryFieldCreatedAt:   "created_at",
	domain.CategoryFieldUpdatedAt:   "updated_at",
	domain.CategoryFieldDeletedAt:   "deleted_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchStatement содержит готовые запросы выборки страницы и подсчёта общего числа записей.
type searchStatement struct {
	Select     string
	SelectArgs []any
	Count      string
	CountArgs  []any
}

// buildCategorySearch строит SQL для постраничного поиска.
// Предикаты фильтра объединяются через OR, сравнение без учёта регистра.
// При равенстве ключа сортировки порядок определяется id по возрастанию.
func buildCategorySearch(q domain.CategorySearchQuery) (*searchStatement, error) {
	const op = "buildCategorySearch"

	if err := q.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	where, args, err := buildWhere(q.Filter())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	field, _ := q.SortField()
	direction, _ := q.SortDirection()
	order := fmt.Sprintf(" ORDER BY %s %s, id ASC", categoryFieldColumns[field], strings.ToUpper(string(direction)))

	limitIdx := len(args) + 1
	selectSQL := "SELECT " + categoryColumns + " FROM categories" + where + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", limitIdx, limitIdx+1)

	selectArgs := make([]any, 0, len(args)+2)
	selectArgs = append(selectArgs, args...)
	selectArgs = append(selectArgs, q.PerPage, domain.Offset(q.Page, q.PerPage))

	return &searchStatement{
		Select:     selectSQL,
		SelectArgs: selectArgs,
		Count:      "SELECT COUNT(*) FROM categories" + where,
		CountArgs:  args,
	}, nil
}

func buildWhere(filter domain.Filter) (string, []any, error) {
	if filter.IsEmpty() {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(filter.AnyOf))
	args := make([]any, 0, len(filter.AnyOf))
	for _, p := range filter.AnyOf {
		column, ok := categoryFieldColumns[p.Field]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter field %q", p.Field)
		}

		args = append(args, containsPattern(p.Contains))
		clauses = append(clauses, fmt.Sprintf(`UPPER(%s) LIKE UPPER($%d) ESCAPE '\'`, column, len(args)))
	}

	return " WHERE (" + strings.Join(clauses, " OR ") + ")", args, nil
}

// containsPattern экранирует спецсимволы LIKE и оборачивает строку в %.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
