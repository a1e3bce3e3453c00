package parser

import (
	"docql/util"
	"testing"
)

func TestTokenKind_lexemeOfKeywords(t *testing.T) {
	for word, kind := range keywords {
		util.AssertEqual(t, word, kind.Lexeme())
		util.AssertTrue(t, kind.IsKeyword())
	}
}

func TestTokenKind_lexemeOfOtherKinds(t *testing.T) {
	util.AssertEqual(t, "*", TokenKindFindAll.Lexeme())
	util.AssertEqual(t, "identifier", TokenKindIdentifier.Lexeme())
	util.AssertEqual(t, "','", TokenKindComma.Lexeme())
	util.AssertEqual(t, "TokenKindKeyword(LIMIT)", TokenKindLimit.String())
	util.AssertEqual(t, "!! INVALID TOKEN KIND 99 !!", TokenKind(99).Lexeme())
}
