// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// revision represents one migration revision which is loaded from the
// artifacts directory. The up and down SQL scripts are optional on
// disk, but Upgrade rejects revisions without an up script.
type revision struct {
	version  int
	name     string
	upPath   string
	downPath string
}

var artifactPattern = regexp.MustCompile(
	`^(\d+)_(.+)_(up|down)\.sql$`,
)

// parseArtifactName splits an artifact file name into its version,
// name, and direction components. The second return value reports
// whether the file name denotes a revision artifact at all.
func parseArtifactName(base string) (version int, name, dir string, ok bool) {
	m := artifactPattern.FindStringSubmatch(base)
	if m == nil {
		return 0, "", "", false
	}
	version, err := strconv.Atoi(m[1])
	if err != nil || version <= 0 {
		return 0, "", "", false
	}
	return version, m[2], m[3], true
}

// loadRevisions scans the artifacts directory and returns the found
// revisions sorted by their ascending version numbers. Files which do
// not match the artifact naming scheme are ignored. Two artifacts with
// the same version and direction, or up/down artifacts disagreeing on
// the revision name, cause an error since the intended ordering would
// be ambiguous.
func (mig *Migrator) loadRevisions() ([]revision, error) {
	entries, err := os.ReadDir(mig.dir)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", mig.dir, err)
	}
	byVersion := make(map[int]*revision)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base := entry.Name()
		version, name, dir, ok := parseArtifactName(base)
		if !ok {
			continue
		}
		rev := byVersion[version]
		if rev == nil {
			rev = &revision{version: version, name: name}
			byVersion[version] = rev
		} else if rev.name != name {
			return nil, fmt.Errorf(
				"revision %d has conflicting names %q and %q",
				version, rev.name, name,
			)
		}
		path := filepath.Join(mig.dir, base)
		switch dir {
		case "up":
			if rev.upPath != "" {
				return nil, fmt.Errorf(
					"revision %d has duplicate up artifacts", version,
				)
			}
			rev.upPath = path
		case "down":
			if rev.downPath != "" {
				return nil, fmt.Errorf(
					"revision %d has duplicate down artifacts", version,
				)
			}
			rev.downPath = path
		}
	}
	revs := make([]revision, 0, len(byVersion))
	for _, rev := range byVersion {
		revs = append(revs, *rev)
	}
	sort.Slice(revs, func(i, j int) bool {
		return revs[i].version < revs[j].version
	})
	return revs, nil
}

// upSQL reads the up script contents of this revision.
func (rev revision) upSQL() (string, error) {
	if rev.upPath == "" {
		return "", fmt.Errorf(
			"revision %d (%s) has no up artifact", rev.version, rev.name,
		)
	}
	b, err := os.ReadFile(rev.upPath)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", rev.upPath, err)
	}
	sql := strings.TrimSpace(string(b))
	if sql == "" {
		return "", fmt.Errorf("empty up artifact %q", rev.upPath)
	}
	return sql, nil
}
