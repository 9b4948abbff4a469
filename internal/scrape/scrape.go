package scrape

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"package-metadata-fetcher/internal/model"
)

// PackagePageExtractor pulls package details out of a package's web page.
type PackagePageExtractor interface {
	Extract(r io.Reader) (*model.NPMDetails, error)
}

// CatalogExtractor lists the package names of a registry's HTML index.
// rows is the number of table rows seen, including rows without a link.
type CatalogExtractor interface {
	Names(r io.Reader) (names []string, rows int, err error)
}

// MissingElementError is returned when a page lacks an element the extractor relies on.
type MissingElementError struct {
	Selector string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("no element matches selector %q", e.Selector)
}

const (
	readmeSelector       = "div#readme"
	descriptionSelector  = "p.package-description"
	dailySelector        = "strong.daily-downloads"
	weeklySelector       = "strong.weekly-downloads"
	monthlySelector      = "strong.monthly-downloads"
	dependentsSelector   = "p.dependents a"
	dependenciesSelector = "p.list-of-links:nth-of-type(2) a"
)

// NPMPage extracts details from npmjs.com package pages.
type NPMPage struct{}

var _ PackagePageExtractor = NPMPage{}

// Extract reads readme, description, download counts and dependency links from a package page.
func (NPMPage) Extract(r io.Reader) (*model.NPMDetails, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse package page: %w", err)
	}

	readme, err := first(doc, readmeSelector)
	if err != nil {
		return nil, err
	}
	readmeHTML, err := goquery.OuterHtml(readme)
	if err != nil {
		return nil, fmt.Errorf("render readme: %w", err)
	}

	description, err := first(doc, descriptionSelector)
	if err != nil {
		return nil, err
	}

	details := &model.NPMDetails{
		Readme:       readmeHTML,
		Description:  description.Text(),
		Dependents:   linkTexts(doc, dependentsSelector),
		Dependencies: linkTexts(doc, dependenciesSelector),
	}

	for selector, dst := range map[string]*int64{
		dailySelector:   &details.DayDownloadCount,
		weeklySelector:  &details.WeekDownloadCount,
		monthlySelector: &details.MonthDownloadCount,
	} {
		s, err := first(doc, selector)
		if err != nil {
			return nil, err
		}
		if *dst, err = ParseCount(s.Text()); err != nil {
			return nil, fmt.Errorf("%s: %w", selector, err)
		}
	}

	return details, nil
}

// PyPICatalog extracts package names from the PyPI "index" page table.
type PyPICatalog struct{}

var _ CatalogExtractor = PyPICatalog{}

// Names returns the link text of each index row, normalized with NormalizeName.
func (PyPICatalog) Names(r io.Reader) ([]string, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("parse package index: %w", err)
	}

	table, err := first(doc, "table")
	if err != nil {
		return nil, 0, err
	}

	rows := table.Find("tr")
	var names []string
	rows.Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a").First()
		if link.Length() == 0 {
			return
		}
		names = append(names, NormalizeName(link.Text()))
	})
	return names, rows.Length(), nil
}

// NormalizeName replaces non-breaking spaces in an index entry with ordinary spaces.
func NormalizeName(s string) string {
	return strings.ReplaceAll(s, "\u00a0", " ")
}

// ParseCount converts a download count such as "1,234" to a number. An empty
// string counts as zero.
func ParseCount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid download count %q: %w", s, err)
	}
	return n, nil
}

func first(doc *goquery.Document, selector string) (*goquery.Selection, error) {
	s := doc.Find(selector).First()
	if s.Length() == 0 {
		return nil, &MissingElementError{Selector: selector}
	}
	return s, nil
}

func linkTexts(doc *goquery.Document, selector string) []string {
	texts := []string{}
	doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		texts = append(texts, a.Text())
	})
	return texts
}
