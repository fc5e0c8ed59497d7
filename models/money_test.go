package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"25", 2500},
		{"25.5", 2550},
		{"25.00", 2500},
		{"0.01", 1},
		{".75", 75},
		{"-3.10", -310},
		{" 12.34 ", 1234},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseMoney_Rejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "1.", "--1", "1.-5", "."} {
		_, err := ParseMoney(in)
		assert.Error(t, err, in)
	}
}

func TestMoney_JSON(t *testing.T) {
	var body struct {
		Fee   *Money `json:"fee"`
		Other *Money `json:"other"`
		None  *Money `json:"none"`
	}
	err := json.Unmarshal([]byte(`{"fee":"20.00","other":12.5,"none":null}`), &body)
	require.NoError(t, err)
	require.NotNil(t, body.Fee)
	require.NotNil(t, body.Other)
	assert.Equal(t, Money(2000), *body.Fee)
	assert.Equal(t, Money(1250), *body.Other)
	assert.Nil(t, body.None)

	out, err := json.Marshal(NewMoney(2505))
	require.NoError(t, err)
	assert.JSONEq(t, `"25.05"`, string(out))
}

func TestMoney_Equal(t *testing.T) {
	var nilMoney *Money
	assert.True(t, nilMoney.Equal(nil))
	assert.False(t, NewMoney(100).Equal(nil))
	assert.True(t, NewMoney(100).Equal(NewMoney(100)))
	assert.False(t, NewMoney(2000).Equal(NewMoney(2001)))
}
