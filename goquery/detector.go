package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsnap"
)

var _ docsnap.FrameworkDetector = (*Detector)(nil)

// frameworkMarker lists selectors that only a given framework emits.
// Markers are checked in order; VitePress precedes VuePress because it
// shares some of its ancestor's markup.
type frameworkMarker struct {
	framework docsnap.Framework
	selectors []string
}

var frameworkMarkers = []frameworkMarker{
	{docsnap.FrameworkDocusaurus, []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container", "[data-rh][data-theme]", "html[data-theme] [data-rh]"}},
	{docsnap.FrameworkMkDocs, []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"}},
	{docsnap.FrameworkSphinx, []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"}},
	{docsnap.FrameworkVitePress, []string{"#VPContent", ".VPDoc", ".VPDocAsideOutline"}},
	{docsnap.FrameworkVuePress, []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar"}},
	{docsnap.FrameworkGitBook, []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"}},
	{docsnap.FrameworkNextra, []string{".nextra-navbar", ".nextra-sidebar", ".nextra-toc", ".nextra-content"}},
}

// frameworkContentSelectors are tried before the generic content selectors
// when a framework is recognized.
var frameworkContentSelectors = map[docsnap.Framework][]string{
	docsnap.FrameworkDocusaurus: {".theme-doc-markdown", "article"},
	docsnap.FrameworkMkDocs:     {".md-content__inner", ".md-content"},
	docsnap.FrameworkSphinx:     {"[itemprop=articleBody]", ".rst-content [role=main]", ".body[role=main]", ".document .body"},
	docsnap.FrameworkVitePress:  {".vp-doc", ".VPDoc .content"},
	docsnap.FrameworkVuePress:   {".theme-default-content"},
	docsnap.FrameworkGitBook:    {"main .page-inner", "main"},
	docsnap.FrameworkNextra:     {".nextra-content article", "main article"},
}

// Detector identifies documentation frameworks from HTML content.
// It checks the meta generator tag, then framework-specific classes,
// data attributes and structural markers.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect parses html and identifies its framework.
func (d *Detector) Detect(html string) docsnap.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docsnap.FrameworkUnknown
	}
	return d.DetectDocument(doc)
}

// DetectDocument identifies the framework of an already parsed document.
func (d *Detector) DetectDocument(doc *goquery.Document) docsnap.Framework {
	if framework := detectFromMetaGenerator(doc); framework != docsnap.FrameworkUnknown {
		return framework
	}

	for _, m := range frameworkMarkers {
		for _, sel := range m.selectors {
			if doc.Find(sel).Length() > 0 {
				return m.framework
			}
		}
	}

	if hasGitBookClasses(doc) {
		return docsnap.FrameworkGitBook
	}
	return docsnap.FrameworkUnknown
}

// ContentSelectors returns the content region selectors specific to a
// framework, or nil when it has none.
func ContentSelectors(framework docsnap.Framework) []string {
	return frameworkContentSelectors[framework]
}

func detectFromMetaGenerator(doc *goquery.Document) docsnap.Framework {
	generator := strings.ToLower(doc.Find("meta[name='generator']").Last().AttrOr("content", ""))
	if generator == "" {
		return docsnap.FrameworkUnknown
	}

	for _, f := range []docsnap.Framework{
		docsnap.FrameworkSphinx,
		docsnap.FrameworkGitBook,
		docsnap.FrameworkDocusaurus,
		docsnap.FrameworkMkDocs,
		docsnap.FrameworkVitePress,
		docsnap.FrameworkVuePress,
		docsnap.FrameworkNextra,
	} {
		if strings.Contains(generator, string(f)) {
			return f
		}
	}
	return docsnap.FrameworkUnknown
}

// hasGitBookClasses requires at least two of GitBook's html element classes.
func hasGitBookClasses(doc *goquery.Document) bool {
	class := doc.Find("html").AttrOr("class", "")
	if class == "" {
		return false
	}

	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			count++
		}
	}
	return count >= 2
}
