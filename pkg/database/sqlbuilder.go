package database

import (
	"github.com/huandu/go-sqlbuilder"
)

var flavor = sqlbuilder.PostgreSQL

// NewStruct builds a sqlbuilder struct mapper for the given model using the
// postgres flavor. Models tag their columns with `db`.
func NewStruct(model any) *sqlbuilder.Struct {
	return sqlbuilder.NewStruct(model).For(flavor)
}

func NewSelectBuilder() *sqlbuilder.SelectBuilder {
	return flavor.NewSelectBuilder()
}

func NewInsertBuilder() *sqlbuilder.InsertBuilder {
	return flavor.NewInsertBuilder()
}

func NewUpdateBuilder() *sqlbuilder.UpdateBuilder {
	return flavor.NewUpdateBuilder()
}

func NewDeleteBuilder() *sqlbuilder.DeleteBuilder {
	return flavor.NewDeleteBuilder()
}
