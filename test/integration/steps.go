package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	apiKeys      map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:      tc,
		apiKeys: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset(ctx)
	})

	sc.Step(`^a footprint server is running$`, s.aFootprintServerIsRunning)

	// Authentication steps
	sc.Step(`^I register the user "([^"]*)"$`, s.iRegisterTheUser)
	sc.Step(`^I authenticate as "([^"]*)" with the correct API key$`, s.iAuthenticateWithCorrectAPIKey)
	sc.Step(`^I authenticate as "([^"]*)" with API key "([^"]*)"$`, s.iAuthenticateWithAPIKey)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)
	sc.Step(`^I continue as a guest$`, s.iContinueAsAGuest)
	sc.Step(`^I should receive a valid token$`, s.iShouldReceiveAValidToken)

	// Request steps
	sc.Step(`^I GET "([^"]*)"$`, s.iGET)
	sc.Step(`^I DELETE "([^"]*)"$`, s.iDELETE)
	sc.Step(`^I POST "([^"]*)" with:$`, s.iPOSTWith)
	sc.Step(`^I PUT "([^"]*)" with:$`, s.iPUTWith)
	sc.Step(`^I log the following entries:$`, s.iLogTheFollowingEntries)
	sc.Step(`^I import the CSV:$`, s.iImportTheCSV)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, s.theJSONFieldShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
}

func (s *StepsContext) aFootprintServerIsRunning() error {
	return nil
}

// expandDates replaces "today" and "today-N" with dates relative to now.
func expandDates(s string) string {
	today := time.Now().UTC()
	return os.Expand(s, func(name string) string {
		if name == "today" {
			return today.Format("2006-01-02")
		}
		if strings.HasPrefix(name, "today-") {
			if n, err := strconv.Atoi(strings.TrimPrefix(name, "today-")); err == nil {
				return today.AddDate(0, 0, -n).Format("2006-01-02")
			}
		}
		return "${" + name + "}"
	})
}

func (s *StepsContext) do(method, path, contentType string, body io.Reader) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+expandDates(path), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf(`Token token="%s"`, s.authToken))
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Authentication steps

func (s *StepsContext) iRegisterTheUser(email string) error {
	body, _ := json.Marshal(map[string]string{"email": email})
	if err := s.do("POST", "/users", "application/json", bytes.NewReader(body)); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("registration failed: %d %s", s.response.StatusCode, s.responseBody)
	}
	var resp struct {
		APIKey string `json:"api_key"`
	}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return err
	}
	s.apiKeys[email] = resp.APIKey
	return nil
}

func (s *StepsContext) iAuthenticateWithCorrectAPIKey(email string) error {
	apiKey, ok := s.apiKeys[email]
	if !ok {
		return fmt.Errorf("user %s was not registered in this scenario", email)
	}
	return s.iAuthenticateWithAPIKey(email, apiKey)
}

func (s *StepsContext) iAuthenticateWithAPIKey(email, apiKey string) error {
	s.authToken = ""
	path := fmt.Sprintf("/authn/%s/authenticate", url.PathEscape(email))
	if err := s.do("POST", path, "text/plain", strings.NewReader(apiKey)); err != nil {
		return err
	}
	return s.captureToken()
}

func (s *StepsContext) iAmAuthenticatedAs(email string) error {
	if err := s.iRegisterTheUser(email); err != nil {
		return err
	}
	if err := s.iAuthenticateWithCorrectAPIKey(email); err != nil {
		return err
	}
	return s.iShouldReceiveAValidToken()
}

func (s *StepsContext) iContinueAsAGuest() error {
	s.authToken = ""
	if err := s.do("POST", "/authn/guest", "", nil); err != nil {
		return err
	}
	return s.captureToken()
}

func (s *StepsContext) captureToken() error {
	if s.response.StatusCode != http.StatusOK {
		return nil
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return err
	}
	s.authToken = resp.Token
	return nil
}

func (s *StepsContext) iShouldReceiveAValidToken() error {
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d: %s", s.response.StatusCode, s.responseBody)
	}
	if strings.Count(s.authToken, ".") != 2 {
		return fmt.Errorf("expected a signed JWT, got %q", s.authToken)
	}
	return nil
}

// Request steps

func (s *StepsContext) iGET(path string) error {
	return s.do("GET", path, "", nil)
}

func (s *StepsContext) iDELETE(path string) error {
	return s.do("DELETE", path, "", nil)
}

func (s *StepsContext) iPOSTWith(path string, body *godog.DocString) error {
	return s.do("POST", path, "application/json", strings.NewReader(expandDates(body.Content)))
}

func (s *StepsContext) iPUTWith(path string, body *godog.DocString) error {
	return s.do("PUT", path, "application/json", strings.NewReader(expandDates(body.Content)))
}

func (s *StepsContext) iImportTheCSV(body *godog.DocString) error {
	return s.do("POST", "/entries/import", "text/csv", strings.NewReader(expandDates(body.Content)))
}

// iLogTheFollowingEntries posts one entry per table row. The header names
// the JSON fields; numeric columns are sent as numbers.
func (s *StepsContext) iLogTheFollowingEntries(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("table needs a header and at least one row")
	}
	header := table.Rows[0].Cells
	for _, row := range table.Rows[1:] {
		entry := map[string]interface{}{}
		for i, cell := range row.Cells {
			name := header[i].Value
			value := expandDates(cell.Value)
			if f, err := strconv.ParseFloat(value, 64); err == nil && name != "date" && name != "alias" {
				entry[name] = f
			} else {
				entry[name] = value
			}
		}
		body, _ := json.Marshal(entry)
		if err := s.do("POST", "/entries", "application/json", bytes.NewReader(body)); err != nil {
			return err
		}
		if s.response.StatusCode != http.StatusCreated {
			return fmt.Errorf("failed to log entry %v: %d %s", entry, s.response.StatusCode, s.responseBody)
		}
	}
	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), expandDates(text)) {
		return fmt.Errorf("response body does not contain %q: %s", text, s.responseBody)
	}
	return nil
}

// theJSONFieldShouldBe follows a dotted path such as "leaderboard.0.alias".
func (s *StepsContext) theJSONFieldShouldBe(path, expected string) error {
	var doc interface{}
	if err := json.Unmarshal(s.responseBody, &doc); err != nil {
		return fmt.Errorf("response is not JSON: %w: %s", err, s.responseBody)
	}

	cur := doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return fmt.Errorf("field %q not found in %s", path, s.responseBody)
			}
			cur = v
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return fmt.Errorf("index %q out of range in %s", part, s.responseBody)
			}
			cur = node[i]
		default:
			return fmt.Errorf("cannot descend into %q at %q", path, part)
		}
	}

	var actual string
	switch v := cur.(type) {
	case string:
		actual = v
	case float64:
		actual = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		actual = fmt.Sprint(v)
	}
	if actual != expandDates(expected) {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, actual)
	}
	return nil
}
