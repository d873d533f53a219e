package descriptor

import (
	"fmt"
	"strings"

	"github.com/github/go-spdx/v2/spdxexp"
)

// licenseAliases maps the free-form license declarations commonly found in
// descriptors to SPDX identifiers. Keys are lowercase with collapsed spaces.
var licenseAliases = map[string]string{
	"gnu gplv3":                   "GPL-3.0-only",
	"gnu gpl v3":                  "GPL-3.0-only",
	"gplv3":                       "GPL-3.0-only",
	"gpl v3":                      "GPL-3.0-only",
	"gpl3":                        "GPL-3.0-only",
	"gnu gplv2":                   "GPL-2.0-only",
	"gplv2":                       "GPL-2.0-only",
	"gnu lgplv3":                  "LGPL-3.0-only",
	"lgplv3":                      "LGPL-3.0-only",
	"apache 2.0":                  "Apache-2.0",
	"apache 2":                    "Apache-2.0",
	"apache license 2.0":          "Apache-2.0",
	"apache license, version 2.0": "Apache-2.0",
	"mit license":                 "MIT",
	"mit":                         "MIT",
	"bsd":                         "BSD-3-Clause",
	"bsd license":                 "BSD-3-Clause",
	"mpl 2.0":                     "MPL-2.0",
	"mozilla public license 2.0":  "MPL-2.0",
	"isc license":                 "ISC",
	"the unlicense":               "Unlicense",
}

// NormalizeLicense resolves a free-form license declaration to a valid SPDX
// expression. Known aliases ("GNU GPLv3", "Apache 2.0") are mapped first;
// anything else must already be a valid SPDX expression.
func NormalizeLicense(license string) (string, error) {
	declared := strings.Join(strings.Fields(license), " ")
	if declared == "" {
		return "", fmt.Errorf("empty license")
	}

	if id, ok := licenseAliases[strings.ToLower(declared)]; ok {
		return id, nil
	}

	valid, _ := spdxexp.ValidateLicenses([]string{declared})
	if !valid {
		return "", fmt.Errorf("not a recognized license or SPDX expression")
	}
	return declared, nil
}
