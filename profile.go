package portfolio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/amandeeptherockstar/portfolio/stars"
	"github.com/amandeeptherockstar/portfolio/views"
)

// Profile is the owner's biography, links and projects, read from a YAML
// file next to the content.
type Profile struct {
	BioShort    string          `yaml:"bioShort"`
	BioDetailed string          `yaml:"bioDetailed"`
	Company     string          `yaml:"company"`
	CompanyURL  string          `yaml:"companyUrl"`
	Location    string          `yaml:"location"`
	Education   string          `yaml:"education"`
	Email       string          `yaml:"email"`
	Socials     []SocialLink    `yaml:"socials"`
	Projects    []ProjectConfig `yaml:"projects"`
}

// SocialLink is one header link.
type SocialLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// ProjectConfig is a homepage project. Repo is "owner/repo" or a bare repo
// name resolved against GITHUB_OWNER; empty means no star badge.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Href        string `yaml:"href"`
	Description string `yaml:"description"`
	Repo        string `yaml:"repo"`
}

// LoadProfile reads the profile at path. A missing file yields an empty
// profile.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// repoRef returns the "owner/repo" reference of a project, or "" when the
// project has none.
func (p ProjectConfig) repoRef(defaultOwner string) string {
	repo := strings.TrimSpace(p.Repo)
	if repo == "" {
		return ""
	}
	if !strings.Contains(repo, "/") {
		if defaultOwner == "" {
			return ""
		}
		repo = defaultOwner + "/" + repo
	}
	if _, _, ok := stars.ParseRepo(repo); !ok {
		return ""
	}
	return repo
}

func (a *App) siteView() views.Site {
	socials := make([]views.Social, 0, len(a.Profile.Socials))
	for _, s := range a.Profile.Socials {
		socials = append(socials, views.Social{Label: s.Label, Href: s.Href})
	}
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		BioShort:    a.Profile.BioShort,
		BioDetailed: a.Profile.BioDetailed,
		Company:     a.Profile.Company,
		CompanyURL:  a.Profile.CompanyURL,
		Location:    a.Profile.Location,
		Education:   a.Profile.Education,
		Email:       a.Profile.Email,
		Socials:     socials,
	}
}
