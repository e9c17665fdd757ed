package dom

import (
	"strings"
	"testing"
)

func TestParseFragmentKeepsDirectiveAttributes(t *testing.T) {
	frag, err := ParseFragment(`<button @click="inc()" :class="cls" u-text="count"></button>`)
	if err != nil {
		t.Fatal(err)
	}
	btn := frag.FirstElementChild()
	for _, name := range []string{"@click", ":class", "u-text"} {
		if !btn.HasAttribute(name) {
			t.Errorf("missing attribute %q", name)
		}
	}
}

func TestParseFragmentTemplateContent(t *testing.T) {
	frag := MustParseFragment(`<template u-for="x in items"><li>a</li><li>b</li></template>`)
	tpl := frag.FirstElementChild()
	if !tpl.Is("template") {
		t.Fatalf("expected template, got %q", tpl.Tag)
	}
	content := tpl.TemplateContent()
	if n := len(content.Children()); n != 2 {
		t.Errorf("expected 2 content children, got %d", n)
	}
	if len(tpl.Children()) != 2 {
		t.Error("TemplateContent must not consume the template")
	}
}

func TestParseFragmentTableRows(t *testing.T) {
	frag := MustParseFragment(`<tr u-for="r in rows"><td u-text="r"></td></tr>`)
	if tr := frag.FirstElementChild(); tr == nil || !tr.Is("tr") {
		t.Fatalf("table row should survive fragment parsing, got %q", frag.InnerHTML())
	}
}

func TestParseParamAndMeta(t *testing.T) {
	frag := MustParseFragment(`<param $total="a + b" computed><meta +foo="bar"><p></p>`)
	kids := frag.Children()
	if len(kids) != 3 || !kids[0].Is("param") || !kids[1].Is("meta") {
		t.Fatalf("unexpected children %q", frag.InnerHTML())
	}
	if kids[0].GetAttribute("$total") != "a + b" {
		t.Error("param attribute lost")
	}
}

func TestSetInnerHTML(t *testing.T) {
	div := NewElement("div")
	if err := div.SetInnerHTML(`<b>x</b> y`); err != nil {
		t.Fatal(err)
	}
	if got := div.InnerHTML(); got != "<b>x</b> y" {
		t.Errorf("got %q", got)
	}
}

func TestRenderEscaping(t *testing.T) {
	p := NewElement("p")
	p.SetAttribute("title", `a"b`)
	p.SetTextContent("<script>alert('x')</script>")

	out := p.OuterHTML()
	if strings.Contains(out, "<script>") {
		t.Errorf("text should be escaped, got %q", out)
	}
	if !strings.Contains(out, `title="a&#34;b"`) {
		t.Errorf("attribute should be escaped, got %q", out)
	}
}

func TestRenderVoidAndBoolean(t *testing.T) {
	frag := MustParseFragment(`<input disabled value="v"><br>`)
	if got := frag.InnerHTML(); got != `<input disabled value="v"><br>` {
		t.Errorf("got %q", got)
	}
}

func TestRenderShadow(t *testing.T) {
	host := NewElement("x-a")
	host.AttachShadow().AppendChild(NewText("inside"))

	r := NewRenderer(RendererConfig{Shadow: true})
	out, err := r.RenderToString(host)
	if err != nil {
		t.Fatal(err)
	}
	want := `<x-a><template shadowrootmode="open">inside</template></x-a>`
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if host.OuterHTML() != "<x-a></x-a>" {
		t.Error("default renderer should not include shadow roots")
	}
}

func TestRenderRawText(t *testing.T) {
	frag := MustParseFragment(`<script>if (a < b) {}</script>`)
	if got := frag.InnerHTML(); got != `<script>if (a < b) {}</script>` {
		t.Errorf("script text should not be escaped, got %q", got)
	}
}
