package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "plain ascii unchanged", input: "hello", want: "hello"},
		{name: "full-width ascii folded", input: "ＡＢＣ１２３", want: "ABC123"},
		{name: "half-width katakana widened", input: "ﾔﾏﾀﾞ", want: "ヤマダ"},
		{name: "whitespace collapsed", input: "  山田  太郎\t\n議員 ", want: "山田 太郎 議員"},
		{name: "ideographic space", input: "山田　太郎", want: "山田 太郎"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"ＡＢＣ　ｄｅｆ",
		"ﾀﾅｶ ｲﾁﾛｳ",
		"第１回　定例会",
		"plain text",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", in)
	}
}

func TestNormalizeName(t *testing.T) {
	honorifics := []string{"君", "さん", "議員", "委員"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trailing honorific stripped", input: "山田太郎君", want: "山田太郎"},
		{name: "spaced name collapsed", input: "山田　太郎", want: "山田太郎"},
		{name: "honorific with space", input: "山田 太郎 議員", want: "山田太郎"},
		{name: "only one honorific stripped", input: "山田太郎議員", want: "山田太郎"},
		{name: "bare honorific kept", input: "議員", want: "議員"},
		{name: "no honorific", input: "山田太郎", want: "山田太郎"},
		{name: "full-width folded before strip", input: "ヤマダ　タロウさん", want: "ヤマダタロウ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.input, honorifics))
		})
	}
}
