package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
)

// presentTargetError renders an error that stopped a target from being
// reviewed. Without verbose, GitHub errors are reduced to their status and
// message so request URLs do not leak into output.
func presentTargetError(err error, verbose bool) string {
	if err == nil {
		return "unknown error"
	}

	full := err.Error()
	if verbose {
		return full
	}

	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return fmt.Sprintf("GitHub API rate limit exceeded (resets at %s); set GITHUB_TOKEN or run 'gh auth login'", rle.Rate.Reset.Format("15:04:05 MST"))
	}

	var er *github.ErrorResponse
	if errors.As(err, &er) {
		msg := strings.TrimSpace(er.Message)
		if msg == "" {
			msg = "GitHub API request failed"
		}
		if er.Response != nil {
			status := fmt.Sprintf("%d %s", er.Response.StatusCode, http.StatusText(er.Response.StatusCode))
			if er.Response.StatusCode == http.StatusNotFound {
				return fmt.Sprintf("GitHub API request failed (%s): %s (repository or ref not found, or not visible with the current token)", status, msg)
			}
			return fmt.Sprintf("GitHub API request failed (%s): %s", status, msg)
		}
		return fmt.Sprintf("GitHub API request failed: %s", msg)
	}

	s := strings.TrimSpace(full)
	if scrubbed := scrubGitHubRequestFromErrorString(s); scrubbed != "" {
		return scrubbed
	}
	return s
}

func scrubGitHubRequestFromErrorString(s string) string {
	// go-github errors look like:
	//   GET https://api.github.com/...: 403 Some message. [..]
	// possibly behind a prefix added while wrapping.
	for _, m := range []string{"GET ", "POST ", "PUT ", "PATCH ", "DELETE "} {
		i := strings.Index(s, m+"https://")
		if i < 0 {
			continue
		}
		rest := s[i+len(m):]
		j := strings.Index(rest, ": ")
		if j < 0 {
			return ""
		}
		return strings.TrimSpace(s[:i] + rest[j+2:])
	}
	return ""
}
