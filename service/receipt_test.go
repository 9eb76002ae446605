package service

import (
	"strings"
	"testing"

	"budgeto/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReceipt(t *testing.T) {
	text := "\n  CORNER   MARKET  \nMilk $3.49\nBread 2.50\nTOTAL $ 5.99\n"

	draft, err := ParseReceipt(text)
	require.NoError(t, err)
	assert.Equal(t, "CORNER MARKET", draft.Title)
	require.NotNil(t, draft.Amount)
	assert.Equal(t, 5.99, *draft.Amount)
}

func TestParseReceipt_NoAmount(t *testing.T) {
	draft, err := ParseReceipt("Thank you for shopping")
	require.NoError(t, err)
	assert.Nil(t, draft.Amount)
	assert.Equal(t, "Thank you for shopping", draft.Title)
}

func TestParseReceipt_LargestNumberWins(t *testing.T) {
	draft, err := ParseReceipt("Cafe\n€12 coffee x2\n£7.5 tip\n13. change")
	require.NoError(t, err)
	require.NotNil(t, draft.Amount)
	assert.Equal(t, 13.0, *draft.Amount)
}

func TestParseReceipt_TitleTruncated(t *testing.T) {
	draft, err := ParseReceipt(strings.Repeat("x", 80) + "\n10.00")
	require.NoError(t, err)
	assert.Len(t, draft.Title, 50)
}

func TestParseReceipt_Empty(t *testing.T) {
	_, err := ParseReceipt("  \n\t ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
