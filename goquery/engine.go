// Package goquery implements the rule engine and media resolver on top of
// the goquery document model. It applies declarative artex.ExtractionRule
// transforms to isolate and normalize article bodies.
package goquery

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/artex"
	"golang.org/x/net/html"
)

// Engine applies extraction rules to parsed documents. The zero value is
// usable; Logger, when set, receives warnings for skipped selectors.
//
// An Engine holds no per-document state and is safe for concurrent use.
type Engine struct {
	Logger *slog.Logger
}

// NewEngine creates an Engine that logs selector warnings to logger.
// A nil logger disables warnings.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{Logger: logger}
}

// Parse builds a document tree from raw HTML. The tree is owned by the
// calling pipeline invocation and discarded after serialization.
func (e *Engine) Parse(rawHTML string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, artex.Errorf(artex.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// Apply resolves the rule's root locator against doc, applies removal
// selectors in order, and runs the structural transforms in their fixed
// order. It returns the article root selection.
//
// A removal selector that matches nothing is a no-op; an invalid selector
// expression is skipped with a warning. A root locator that matches
// nothing yields EEMPTYROOT.
func (e *Engine) Apply(doc *goquery.Document, rule artex.ExtractionRule) (*goquery.Selection, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	root, err := e.locateRoot(doc, rule)
	if err != nil {
		return nil, err
	}

	for _, expr := range rule.RemoveSelectors {
		m, err := cascadia.Compile(expr)
		if err != nil {
			e.warn("skipping invalid remove selector", "site", rule.Site, "selector", expr, "err", err)
			continue
		}
		root.FindMatcher(m).Remove()
	}

	// Fixed transform order: later transforms assume earlier ones have
	// normalized their inputs.
	if rule.UnwrapAnchors {
		unwrapMediaAnchors(root)
	}
	if len(rule.LazyAttrs) > 0 {
		promoteLazySources(root, rule.LazyAttrs)
	}
	if rule.IframeSuffix != "" {
		fixIframeSuffix(root, rule.IframeSuffix)
	}
	if rule.VideoSelector != "" {
		e.simplifyVideos(root, rule)
	}
	if rule.RemoveEmptySelector != "" {
		e.removeEmpty(root, rule)
	}
	promoteNoscriptContent(root)

	if rule.ConvertImgur {
		convertImgurEmbeds(root)
	}

	return root, nil
}

// locateRoot resolves the rule's main selector or custom root locator.
func (e *Engine) locateRoot(doc *goquery.Document, rule artex.ExtractionRule) (*goquery.Selection, error) {
	if rule.Root != nil {
		nodes := rule.Root(docNode(doc))
		if len(nodes) == 0 {
			return nil, artex.Errorf(artex.EEMPTYROOT, "custom root locator for %q matched nothing", rule.Site)
		}
		return selectionFromNodes(doc, nodes), nil
	}

	m, err := cascadia.Compile(rule.MainSelector)
	if err != nil {
		return nil, artex.Errorf(artex.EINVALID, "invalid main selector %q for %q: %v", rule.MainSelector, rule.Site, err)
	}

	root := doc.FindMatcher(m)
	if root.Length() == 0 {
		return nil, artex.Errorf(artex.EEMPTYROOT, "main selector %q for %q matched nothing", rule.MainSelector, rule.Site)
	}
	return root, nil
}

// Serialize renders each node of the selection and concatenates the
// results into one fragment.
func Serialize(sel *goquery.Selection) (string, error) {
	var b strings.Builder
	var renderErr error
	sel.Each(func(_ int, s *goquery.Selection) {
		out, err := goquery.OuterHtml(s)
		if err != nil {
			renderErr = err
			return
		}
		b.WriteString(out)
	})
	if renderErr != nil {
		return "", artex.Errorf(artex.EINTERNAL, "failed to serialize fragment: %v", renderErr)
	}
	return b.String(), nil
}

// docNode returns the document's root html node.
func docNode(doc *goquery.Document) *html.Node {
	if len(doc.Selection.Nodes) == 0 {
		return nil
	}
	return doc.Selection.Nodes[0]
}

// selectionFromNodes wraps raw nodes in a selection bound to doc so that
// subsequent queries and mutations operate on the same tree.
func selectionFromNodes(doc *goquery.Document, nodes []*html.Node) *goquery.Selection {
	return doc.Selection.Slice(0, 0).AddNodes(nodes...)
}

// compile validates a rule-supplied selector, logging and reporting
// failure instead of aborting the extraction.
func (e *Engine) compile(site, expr string) (cascadia.Selector, bool) {
	m, err := cascadia.Compile(expr)
	if err != nil {
		e.warn("skipping invalid selector", "site", site, "selector", expr, "err", err)
		return nil, false
	}
	return m, true
}

func (e *Engine) warn(msg string, args ...any) {
	if e.Logger != nil {
		e.Logger.Warn(msg, args...)
	}
}
