package domain

// Identifier описывает идентификатор сущности: сравнимое значение с текстовым представлением.
type Identifier interface {
	comparable
	String() string
}

// Entity хранит идентичность сущности. Равенство сущностей определяется только идентификатором.
type Entity[ID Identifier] struct {
	id ID
}

func NewEntity[ID Identifier](id ID) Entity[ID] {
	return Entity[ID]{id: id}
}

// ID возвращает идентификатор сущности.
func (e Entity[ID]) ID() ID {
	return e.id
}

// SameIdentityAs сообщает, совпадают ли идентификаторы двух сущностей.
func (e Entity[ID]) SameIdentityAs(other Entity[ID]) bool {
	return e.id == other.id
}
