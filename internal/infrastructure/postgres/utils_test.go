package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

func TestContainsPattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%choco%", containsPattern("choco"))
	assert.Equal(t, `%50\%%`, containsPattern("50%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\x%`, containsPattern(`c:\x`))
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	wrapped := fmt.Errorf("insert: %w", pgErr)

	assert.True(t, isUniqueViolation(wrapped))
	assert.Equal(t, "users_email_key", violatedConstraint(wrapped))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no basta")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestFilterByNameFold_PliegueUnicode(t *testing.T) {
	sweets := []*entity.Sweet{
		{ID: "1", Name: "Straße Toffee"},
		{ID: "2", Name: "Milk Chocolate Bar"},
		{ID: "3", Name: "STRASSE Lollipop"},
	}

	got := filterByNameFold(sweets, "strasse")
	assert.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Len(t, filterByNameFold(sweets, "CHOCOLATE"), 1)
	assert.Len(t, filterByNameFold(sweets, ""), 3)
	assert.Empty(t, filterByNameFold(sweets, "gummy"))
}
