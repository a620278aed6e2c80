package modstree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `<?xml version="1.0" encoding="UTF-8"?>
<mods:mods xmlns:mods="http://www.loc.gov/mods/v3" xmlns:xlink="http://www.w3.org/1999/xlink">
  <mods:titleInfo type="uniform"><mods:title>X</mods:title></mods:titleInfo>
  <mods:titleInfo>
    <mods:nonSort>The</mods:nonSort>
    <mods:title>Store</mods:title>
    <mods:subTitle>A Novel</mods:subTitle>
  </mods:titleInfo>
  <mods:typeOfResource>text</mods:typeOfResource>
  <mods:note/>
  <mods:location><mods:url xlink:href="ignored" access="object in context">https://id.lib.harvard.edu/x</mods:url></mods:location>
</mods:mods>`

func parseNormalized(t *testing.T, xml string) *Node {
	t.Helper()
	doc, err := Parse([]byte(xml))
	require.NoError(t, err)
	return Get(Normalize(doc), "mods")
}

func TestParse_BuildsPrefixedTree(t *testing.T) {
	doc, err := Parse([]byte(sampleRecord))
	require.NoError(t, err)

	require.Equal(t, []string{"mods:mods"}, doc.Keys())
	root := doc.Value("mods:mods")
	require.Equal(t, KindMap, root.Kind())

	titles := root.Value("mods:titleInfo")
	require.Equal(t, KindGroup, titles.Kind())
	assert.Len(t, titles.Items(), 2)

	assert.Equal(t, "text", root.Value("mods:typeOfResource").String())
	assert.True(t, root.Value("mods:note").IsNull(), "empty element becomes null")
	assert.Nil(t, root.Value("@xmlns:mods"), "namespace declarations are dropped")
}

func TestLocalName(t *testing.T) {
	tests := map[string]string{
		"titleInfo":      "titleInfo",
		"mods:titleInfo": "titleInfo",
		"a:b:c":          "c",
		"@type":          "@type",
		"@xlink:href":    "@href",
		"#text":          "#text",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, LocalName(in))
			assert.Equal(t, want, LocalName(LocalName(in)))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(""))
	assert.Error(t, err)
}

func TestNormalize_StripsPrefixes(t *testing.T) {
	mods := parseNormalized(t, sampleRecord)

	assert.Equal(t, []string{"titleInfo", "typeOfResource", "note", "location"}, mods.Keys())
	url := Get(Get(mods, "location"), "url")
	assert.Equal(t, "object in context", Attr(url, "access"))
	assert.Equal(t, "ignored", Attr(url, "href"))
	assert.Equal(t, "https://id.lib.harvard.edu/x", MustText(mods, "location", "url"))
}

func TestNormalize_Idempotent(t *testing.T) {
	doc, err := Parse([]byte(sampleRecord))
	require.NoError(t, err)

	once := Normalize(doc)
	twice := Normalize(once)
	assert.True(t, Equal(once, twice))
	assert.False(t, Equal(doc, once))
}

func TestNormalize_NilAndScalar(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	s := Scalar("mods:keep")
	assert.Same(t, s, Normalize(s), "scalar text is never rewritten")
}

func TestNormalize_CollidingKeysKeepFirstPosition(t *testing.T) {
	m := NewMap().
		Set("mods:title", Scalar("a")).
		Set("other", Scalar("b")).
		Set("title", Scalar("c"))

	out := Normalize(m)
	assert.Equal(t, []string{"title", "other"}, out.Keys())
	assert.Equal(t, "c", out.Value("title").String())
}

func TestAsSequence(t *testing.T) {
	assert.Empty(t, AsSequence(nil))

	s := Scalar("x")
	assert.Equal(t, []*Node{s}, AsSequence(s))

	m := NewMap()
	assert.Equal(t, []*Node{m}, AsSequence(m))

	g := Group(Scalar("a"), Scalar("b"))
	assert.Len(t, AsSequence(g), 2)
}

func TestGet_NamespaceInsensitive(t *testing.T) {
	m := NewMap().
		Set("mods:title", Scalar("prefixed")).
		Set("name", Scalar("plain"))

	assert.Equal(t, "prefixed", Get(m, "mods:title").String())
	assert.Equal(t, "prefixed", Get(m, "title").String())
	assert.Equal(t, "plain", Get(m, "name").String())
	assert.Nil(t, Get(m, "missing"))
	assert.Nil(t, Get(Scalar("x"), "title"))
	assert.Nil(t, Get(nil, "title"))
}

func TestGet_FirstLocalNameMatchWins(t *testing.T) {
	m := NewMap().
		Set("a:title", Scalar("first")).
		Set("b:title", Scalar("second"))
	assert.Equal(t, "first", Get(m, "title").String())
}

func TestText(t *testing.T) {
	rec := NewMap().
		Set("titleInfo", Group(
			NewMap().Set("title", Scalar("One")),
			NewMap().Set("title", NewMap().Set("@lang", Scalar("fr")).Set("#text", Scalar("Deux"))),
		)).
		Set("note", NewMap().Set("text", Scalar("alt text key"))).
		Set("empty", NewMap().Set("@type", Scalar("x")))

	tests := []struct {
		name  string
		path  []any
		want  string
		found bool
	}{
		{"scalar via index", []any{"titleInfo", 0, "title"}, "One", true},
		{"map #text", []any{"titleInfo", 1, "title"}, "Deux", true},
		{"fallback text key", []any{"note"}, "alt text key", true},
		{"index out of range", []any{"titleInfo", 2, "title"}, "", false},
		{"key on group fails", []any{"titleInfo", "title"}, "", false},
		{"index on map fails", []any{"note", 0}, "", false},
		{"missing key", []any{"nope"}, "", false},
		{"map without text", []any{"empty"}, "", false},
		{"group terminal", []any{"titleInfo"}, "", false},
		{"bad step type", []any{1.5}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Text(rec, tc.path...)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInt(t *testing.T) {
	m := NewMap().Set("numFound", Scalar(" 42 ")).Set("bad", Scalar("x"))
	assert.Equal(t, 42, Int(m, 0, "numFound"))
	assert.Equal(t, 7, Int(m, 7, "bad"))
	assert.Equal(t, 7, Int(m, 7, "missing"))
}
