package model

import "encoding/json"

// DefaultBranch is assumed when an app entry carries no branch.
const DefaultBranch = "main"

// AppItem identifies one remotely-stored app config: a display name plus the
// repository, file path and branch the config lives at.
type AppItem struct {
	Name   string `json:"name"`
	RepoID string `json:"repoId"`
	Path   string `json:"path"`
	Branch string `json:"branch"`
}

// Normalize fills defaults on a single entry.
func (a *AppItem) Normalize() {
	if a.Branch == "" {
		a.Branch = DefaultBranch
	}
}

// Validate checks that the entry identifies a real remote file.
func (a *AppItem) Validate() error {
	if a.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if a.RepoID == "" {
		return &ValidationError{Field: "repoId", Reason: "must not be empty"}
	}

	if a.Path == "" {
		return &ValidationError{Field: "path", Reason: "must not be empty"}
	}

	return nil
}

// NormalizeApps converts the raw registry-list JSON into app entries with the
// same tolerant policy as NormalizeConfig: a body that is not an ordered
// sequence yields an empty list, entries keep their stored order.
func NormalizeApps(raw []byte) []AppItem {
	var apps []AppItem
	if err := json.Unmarshal(raw, &apps); err != nil {
		return []AppItem{}
	}

	for i := range apps {
		apps[i].Normalize()
	}

	return apps
}

// EncodeApps renders the registry list in its canonical remote form.
func EncodeApps(apps []AppItem) ([]byte, error) {
	if apps == nil {
		apps = []AppItem{}
	}

	return encodeIndented(apps)
}
