/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package base

import (
	"strings"

	"github.com/suparena/detabase/errors"
)

// ParseDataKey splits a project data key of the form "<project id>_<secret>"
// into its two parts. The separator must occur exactly once and both parts
// must be non-empty. The project ID becomes part of the request authority;
// the full data key is sent as the API key header.
func ParseDataKey(dataKey string) (projectID, projectKey string, err error) {
	parts := strings.Split(dataKey, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.NewValidationError("dataKey", "must be of the form <project id>_<secret>")
	}
	return parts[0], parts[1], nil
}
