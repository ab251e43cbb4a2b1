package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGormDBFromDSNRejectsEmpty(t *testing.T) {
	db, err := NewGormDBFromDSN("")
	assert.Error(t, err)
	assert.Nil(t, db)
}
