package fsplugin

import (
	"github.com/veeg-labs/disir-go/pkg/core/dctx"
	"github.com/veeg-labs/disir-go/pkg/core/restrict"
)

func encodeConfigTree(cfg *dctx.Context) wireConfig {
	wc := wireConfig{Version: cfg.Version().String()}
	for _, child := range cfg.Children() {
		wc.Root = append(wc.Root, encodeConfigNode(child))
	}
	return wc
}

func encodeConfigNode(ctx *dctx.Context) wireConfigNode {
	node := wireConfigNode{Name: ctx.Name(), Disabled: ctx.Disabled()}
	if ctx.Tag() == dctx.TagSection {
		node.Kind = "section"
		for _, child := range ctx.Children() {
			node.Children = append(node.Children, encodeConfigNode(child))
		}
		return node
	}
	node.Kind = "keyval"
	v := encodeValue(ctx.Value())
	node.Value = &v
	return node
}

func encodeMoldTree(mold *dctx.Context) wireMold {
	wm := wireMold{}
	for _, child := range mold.Children() {
		wm.Root = append(wm.Root, encodeMoldNode(child))
	}
	return wm
}

func encodeMoldNode(ctx *dctx.Context) wireMoldNode {
	node := wireMoldNode{
		Name:       ctx.Name(),
		Introduced: ctx.Introduced().String(),
	}
	if dep, ok := ctx.Deprecated(); ok {
		node.Deprecated = dep.String()
	}
	for _, doc := range ctx.Documentation() {
		node.Docs = append(node.Docs, doc.Text)
	}
	for _, r := range ctx.Restrictions().All() {
		node.Restrictions = append(node.Restrictions, encodeRestriction(r))
	}

	if ctx.Tag() == dctx.TagSection {
		node.Kind = "section"
		for _, child := range ctx.Children() {
			node.Children = append(node.Children, encodeMoldNode(child))
		}
		return node
	}

	node.Kind = "keyval"
	node.ValueType = ctx.ValueType().String()
	for _, d := range ctx.Defaults().All() {
		v := encodeValue(d.Value)
		node.Defaults = append(node.Defaults, wireDefault{
			Introduced: d.Introduced.String(),
			Value:      v,
		})
	}
	return node
}

func encodeRestriction(r restrict.Restriction) wireRestriction {
	w := wireRestriction{
		Type:       restrictionTypeString(r.Type),
		Introduced: r.Introduced.String(),
		Doc:        r.Doc,
	}
	if r.Deprecated != nil {
		w.Deprecated = r.Deprecated.String()
	}
	switch r.Type {
	case restrict.MinimumEntries, restrict.MaximumEntries:
		w.Count = r.Count
	case restrict.ValueEnum:
		w.EnumMember = r.EnumMember
	case restrict.ValueRange:
		lo, hi := encodeValue(r.RangeLo), encodeValue(r.RangeHi)
		w.RangeLo, w.RangeHi = &lo, &hi
	case restrict.ValueNumeric:
		n := encodeValue(r.Numeric)
		w.Numeric = &n
	}
	return w
}
