package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// GitLab collapsible section helpers. They are no-ops outside GitLab CI.

// SectionStart opens a collapsible section.
func SectionStart(w io.Writer, enabled bool, id, name string) {
	if !enabled {
		return
	}
	fmt.Fprintf(w, "\033[0Ksection_start:%d:%s\r\033[0K%s\n", time.Now().Unix(), id, name)
}

// SectionStartCollapsed opens a section that is collapsed by default.
func SectionStartCollapsed(w io.Writer, enabled bool, id, name string) {
	if !enabled {
		return
	}
	fmt.Fprintf(w, "\033[0Ksection_start:%d:%s[collapsed=true]\r\033[0K%s\n", time.Now().Unix(), id, name)
}

// SectionEnd closes a collapsible section.
func SectionEnd(w io.Writer, enabled bool, id string) {
	if !enabled {
		return
	}
	fmt.Fprintf(w, "\033[0Ksection_end:%d:%s\r\033[0K\n", time.Now().Unix(), id)
}

// JUnit XML types for CI test reporting.

type JUnitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Skipped  int             `xml:"skipped,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitCase is the input for one test case.
type JUnitCase struct {
	Name     string
	Passed   bool
	Kind     string // failure type, e.g. "build-step", "not-found"
	Message  string
	Output   string
	Duration time.Duration
}

// WriteJUnit writes cases as a single JUnit suite to dir/<name>.xml and
// returns the written path.
func WriteJUnit(dir, name string, cases []JUnitCase, elapsed time.Duration) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	suite := JUnitTestSuite{
		Name: "hlbuild/" + name,
		Time: fmt.Sprintf("%.3f", elapsed.Seconds()),
	}
	for _, c := range cases {
		tc := JUnitTestCase{
			Name:      c.Name,
			Classname: "hlbuild." + name,
			Time:      fmt.Sprintf("%.3f", c.Duration.Seconds()),
			SystemOut: c.Output,
		}
		if !c.Passed {
			tc.Failure = &JUnitFailure{
				Message: c.Message,
				Type:    c.Kind,
				Body:    c.Message,
			}
			suite.Failures++
		}
		suite.Cases = append(suite.Cases, tc)
		suite.Tests++
	}

	root := JUnitTestSuites{
		Name:     "hlbuild-" + name,
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Time:     suite.Time,
		Suites:   []JUnitTestSuite{suite},
	}

	path := filepath.Join(dir, name+".xml")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, xml.Header); err != nil {
		return "", err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("encoding junit xml: %w", err)
	}
	if _, err := io.WriteString(f, "\n"); err != nil {
		return "", err
	}
	return path, nil
}
