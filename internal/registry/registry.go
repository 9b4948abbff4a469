package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"package-metadata-fetcher/internal/model"
)

// ErrMissingInfo is returned when a PyPI JSON document has no "info" object.
var ErrMissingInfo = errors.New("pypi response has no info object")

// Endpoints holds the base URLs of the npm and PyPI services.
type Endpoints struct {
	NPMRegistryURL string
	NPMWebURL      string
	PyPIURL        string
}

// DefaultEndpoints returns the public registry locations.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		NPMRegistryURL: "https://skimdb.npmjs.com/registry",
		NPMWebURL:      "https://www.npmjs.com",
		PyPIURL:        "https://pypi.python.org",
	}
}

// NPMAllDocs is the npm registry's bulk index of every package id.
func (e Endpoints) NPMAllDocs() string {
	return strings.TrimSuffix(e.NPMRegistryURL, "/") + "/_all_docs"
}

// NPMPackagePage is the npmjs.com web page of a package.
func (e Endpoints) NPMPackagePage(name string) string {
	return fmt.Sprintf("%s/package/%s", strings.TrimSuffix(e.NPMWebURL, "/"), name)
}

// PyPIIndex is the HTML page listing every PyPI package.
func (e Endpoints) PyPIIndex() string {
	return strings.TrimSuffix(e.PyPIURL, "/") + "/pypi?%3Aaction=index"
}

var pypiPathReplacer = strings.NewReplacer(" ", "/", "\u00a0", "/")

// PyPIPackageJSON returns the JSON API location for a package. Index entries of
// the form "name version" map onto the versioned path "name/version".
func (e Endpoints) PyPIPackageJSON(name string) string {
	return fmt.Sprintf("%s/pypi/%s/json", strings.TrimSuffix(e.PyPIURL, "/"), pypiPathReplacer.Replace(name))
}

type allDocsResponse struct {
	Rows []struct {
		ID string `json:"id"`
	} `json:"rows"`
}

// DecodeAllDocs extracts package names from the npm _all_docs listing.
func DecodeAllDocs(body []byte) ([]string, error) {
	var data allDocsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode _all_docs: %w", err)
	}
	names := make([]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		if row.ID != "" {
			names = append(names, row.ID)
		}
	}
	return names, nil
}

type pypiResponse struct {
	Info *struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
		Downloads   struct {
			LastDay   int64 `json:"last_day"`
			LastWeek  int64 `json:"last_week"`
			LastMonth int64 `json:"last_month"`
		} `json:"downloads"`
	} `json:"info"`
}

// DecodePyPIPackage translates a PyPI JSON API document into model.PyPIDetails.
func DecodePyPIPackage(body []byte) (*model.PyPIDetails, error) {
	var data pypiResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode pypi package: %w", err)
	}
	if data.Info == nil {
		return nil, ErrMissingInfo
	}
	return &model.PyPIDetails{
		Summary:            data.Info.Summary,
		Description:        data.Info.Description,
		DayDownloadCount:   data.Info.Downloads.LastDay,
		WeekDownloadCount:  data.Info.Downloads.LastWeek,
		MonthDownloadCount: data.Info.Downloads.LastMonth,
	}, nil
}
