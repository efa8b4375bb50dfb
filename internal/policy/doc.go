// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package policy decides what a viewer may see and what a viewer may change.
//
// Everything here is a pure function of its inputs: the item, the current
// time and the Viewer. The same rules are evaluated in memory (Filter.Match)
// and pushed into SQL (Filter.SQL) so that listings, counts and pagination
// agree with the single-item checks.
package policy
