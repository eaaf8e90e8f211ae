// internal/cli/cli_test.go
package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"roommate-finder/internal/matching"
	"roommate-finder/internal/models"
)

const userYAML = `
id: u-1
name: Dana
budget:
  min: 500
  max: 1000
location:
  city: Portland
  state: OR
preferences:
  smoking: "no"
  pets: "yes"
  lifestyle: quiet
`

const listingJSON = `{
  "id": "l-1",
  "title": "Sunny room",
  "rentAmount": 800,
  "location": {"city": "Portland", "state": "OR"},
  "preferences": {"smoking": "no", "pets": "yes", "lifestyle": "quiet"}
}`

const listingsYAML = `
- id: far
  rentAmount: 2500
  location: {city: Boise, state: ID}
- id: near
  rentAmount: 800
  location: {city: Portland, state: OR}
  preferences: {smoking: "no", pets: "yes", lifestyle: quiet}
- id: middle
  rentAmount: 1100
  location: {city: Salem, state: OR}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// ==========================
// score
// ==========================

func TestScore_JSONOutput(t *testing.T) {
	userPath := writeFile(t, "user.yaml", userYAML)
	listingPath := writeFile(t, "listing.json", listingJSON)

	out, err := run(t, "score", "--user", userPath, "--listing", listingPath, "-o", "json")
	require.NoError(t, err)

	var got matching.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	var user models.User
	require.NoError(t, readDocument(userPath, &user))
	var listing models.Listing
	require.NoError(t, readDocument(listingPath, &listing))

	assert.Equal(t, matching.Score(&user, &listing), got)
	assert.Equal(t, 100, got.Score)
}

func TestScore_YAMLOutput(t *testing.T) {
	userPath := writeFile(t, "user.yaml", userYAML)
	listingPath := writeFile(t, "listing.json", listingJSON)

	out, err := run(t, "score", "-u", userPath, "-l", listingPath)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "score")
	assert.Contains(t, got, "breakdown")
}

func TestScore_Errors(t *testing.T) {
	userPath := writeFile(t, "user.yaml", userYAML)

	_, err := run(t, "score", "--user", userPath)
	assert.Error(t, err)

	_, err = run(t, "score", "--user", userPath, "--listing", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := writeFile(t, "listing.json", `{"rentAmount": "cheap"}`)
	_, err = run(t, "score", "--user", userPath, "--listing", bad)
	assert.ErrorContains(t, err, "parse")

	_, err = run(t, "score", "--user", userPath, "--listing", bad, "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

// ==========================
// rank
// ==========================

func TestRank_OrdersBestFirst(t *testing.T) {
	userPath := writeFile(t, "user.yaml", userYAML)
	listingsPath := writeFile(t, "listings.yaml", listingsYAML)

	out, err := run(t, "rank", "--user", userPath, "--listings", listingsPath, "-o", "json")
	require.NoError(t, err)

	var ranked []matching.RankedListing
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 3)
	assert.Equal(t, "near", ranked[0].ID)
	assert.Equal(t, "far", ranked[2].ID)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Compatibility.Score, ranked[i].Compatibility.Score)
	}
}

func TestRank_Top(t *testing.T) {
	userPath := writeFile(t, "user.yaml", userYAML)
	listingsPath := writeFile(t, "listings.yaml", listingsYAML)

	out, err := run(t, "rank", "-u", userPath, "-l", listingsPath, "--top", "1")
	require.NoError(t, err)

	var ranked []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, "near", ranked[0]["id"])
	assert.Contains(t, ranked[0], "compatibility")
}

// ==========================
// migrate and version
// ==========================

func TestMigrate_DryRun(t *testing.T) {
	out, err := run(t, "migrate", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE IF NOT EXISTS users")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "roommatectl version: dev", strings.TrimSpace(out))
}

// ==========================
// registry
// ==========================

func TestRegistry_List(t *testing.T) {
	out, err := run(t, "registry", "list", "-o", "json")
	require.NoError(t, err)

	var activities []activitySummary
	require.NoError(t, json.Unmarshal([]byte(out), &activities))
	require.Len(t, activities, 7)
	assert.Equal(t, "build-response", activities[0].TaskType)

	for _, a := range activities {
		if a.TaskType == "rank-matches" {
			assert.Equal(t, "30s", a.Timeout)
			assert.Equal(t, 3, a.Retries)
		}
	}
}

func TestRegistry_Validate(t *testing.T) {
	out, err := run(t, "registry", "validate", "-o", "json")
	require.NoError(t, err)

	var report registryReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Valid)
	assert.Equal(t, 7, report.Activities)
	assert.Positive(t, report.Schemas)
}

func TestRegistry_ValidateRejectsBadFiles(t *testing.T) {
	dup := writeFile(t, "dup.json", `{"version":"1","activities":[{"id":"a","taskType":"x"},{"id":"b","taskType":"x"}]}`)
	_, err := run(t, "registry", "validate", "--path", dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate task type")

	badSchema := writeFile(t, "schema.json", `{"version":"1","activities":[{"id":"a","taskType":"x","inputSchema":{"type":42}}]}`)
	_, err = run(t, "registry", "validate", "--path", badSchema)
	require.Error(t, err)

	badTimeout := writeFile(t, "timeout.json", `{"version":"1","activities":[{"id":"a","taskType":"x","timeout":"soon"}]}`)
	_, err = run(t, "registry", "validate", "--path", badTimeout)
	require.Error(t, err)
}
