// Package update checks GitHub for a newer release. It only
// notifies; installing the new binary is left to the user's package
// manager or a manual download.
package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	cacheFileName    = "update_check.json"
	cacheDuration    = 1 * time.Hour
	devCacheDuration = 15 * time.Minute
)

// githubAPIURL is a variable so tests can point it at a stub
// server.
var githubAPIURL = "https://api.github.com/repos/arvessen/ccsessions/releases/latest"

// Release is the subset of the GitHub release payload we use.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Info describes an available update.
type Info struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
	IsDevBuild     bool
}

type cachedCheck struct {
	CheckedAt time.Time `json:"checked_at"`
	Version   string    `json:"version"`
	URL       string    `json:"url"`
}

// Check reports whether a newer release exists. Returns (nil, nil)
// when up to date. Results are cached in cacheDir to avoid hammering
// the GitHub API; force skips the cache.
func Check(currentVersion string, force bool, cacheDir string) (*Info, error) {
	cleanVersion := strings.TrimPrefix(currentVersion, "v")
	isDevBuild := IsDevBuildVersion(cleanVersion)

	if !force {
		if info, done := checkCache(currentVersion, cleanVersion, isDevBuild, cacheDir); done {
			return info, nil
		}
	}

	release, err := fetchLatestRelease()
	if err != nil {
		return nil, fmt.Errorf("check for updates: %w", err)
	}
	saveCache(release.TagName, release.HTMLURL, cacheDir)

	return buildInfo(currentVersion, cleanVersion, isDevBuild,
		release.TagName, release.HTMLURL), nil
}

// buildInfo compares versions and returns nil when no update is
// worth reporting. Dev builds cannot be compared, so they always
// see the latest release.
func buildInfo(currentVersion, cleanVersion string, isDevBuild bool, tag, url string) *Info {
	if !isDevBuild && !isNewer(strings.TrimPrefix(tag, "v"), cleanVersion) {
		return nil
	}
	return &Info{
		CurrentVersion: currentVersion,
		LatestVersion:  tag,
		ReleaseURL:     url,
		IsDevBuild:     isDevBuild,
	}
}

func checkCache(currentVersion, cleanVersion string, isDevBuild bool, cacheDir string) (*Info, bool) {
	cached, err := loadCache(cacheDir)
	if err != nil {
		return nil, false
	}

	cacheWindow := cacheDuration
	if isDevBuild {
		cacheWindow = devCacheDuration
	}
	if time.Since(cached.CheckedAt) >= cacheWindow {
		return nil, false
	}

	return buildInfo(currentVersion, cleanVersion, isDevBuild,
		cached.Version, cached.URL), true
}

func loadCache(cacheDir string) (*cachedCheck, error) {
	data, err := os.ReadFile(filepath.Join(cacheDir, cacheFileName))
	if err != nil {
		return nil, err
	}
	var cached cachedCheck
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

func saveCache(version, url, cacheDir string) {
	data, err := json.Marshal(cachedCheck{
		CheckedAt: time.Now(),
		Version:   version,
		URL:       url,
	})
	if err != nil {
		return
	}
	_ = os.MkdirAll(cacheDir, 0o755)
	_ = os.WriteFile(filepath.Join(cacheDir, cacheFileName), data, 0o600)
}

func fetchLatestRelease() (*Release, error) {
	req, err := http.NewRequest("GET", githubAPIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "ccsessions-update")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %s", resp.Status)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

func extractBaseSemver(v string) string {
	v = strings.TrimPrefix(v, "v")
	if len(v) == 0 || v[0] < '0' || v[0] > '9' {
		return ""
	}
	if !strings.Contains(v, ".") {
		return ""
	}
	if idx := strings.Index(v, "-"); idx > 0 {
		v = v[:idx]
	}
	return v
}

var gitDescribePattern = regexp.MustCompile(`-\d+-g[0-9a-f]+(-dirty)?$`)

// IsDevBuildVersion returns true if the version is a dev build.
func IsDevBuildVersion(v string) bool {
	v = strings.TrimPrefix(v, "v")
	if extractBaseSemver(v) == "" {
		return true
	}
	return gitDescribePattern.MatchString(v)
}

func isNewer(v1, v2 string) bool {
	if extractBaseSemver(v1) == "" || extractBaseSemver(v2) == "" {
		return false
	}
	return semver.Compare(normalizeSemver(v1), normalizeSemver(v2)) > 0
}

var prereleaseNumericPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// normalizeSemver maps git-describe style versions onto strict
// semver so x/mod can compare them, and splits trailing digits off
// prerelease identifiers ("rc1" -> "rc.1") the way GitHub tags
// usually intend.
func normalizeSemver(v string) string {
	v = strings.TrimPrefix(v, "v")
	if gitDescribePattern.MatchString(v) {
		v = gitDescribePattern.ReplaceAllString(v, "")
	}
	if idx := strings.Index(v, "-"); idx > 0 {
		v = v[:idx] + "-" + normalizePrereleaseIdentifiers(v[idx+1:])
	}
	return "v" + v
}

func normalizePrereleaseIdentifiers(prerelease string) string {
	parts := strings.Split(prerelease, ".")
	var result []string
	for _, part := range parts {
		matches := prereleaseNumericPattern.FindStringSubmatch(part)
		if matches != nil {
			letters, digits := matches[1], matches[2]
			if len(digits) > 1 && digits[0] == '0' {
				result = append(result, part)
			} else {
				result = append(result, letters, digits)
			}
		} else {
			result = append(result, part)
		}
	}
	return strings.Join(result, ".")
}
