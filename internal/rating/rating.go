// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

// Package rating computes net scores from grade rows.
package rating

import "github.com/tomtom215/confit/internal/models"

// Score folds grade rows into a net rating: +1 per visible up-vote, -1 per
// visible down-vote. Cancelled (blocked) rows contribute nothing. The fold
// is order-independent; the result may be negative.
func Score(grades []models.Grade) int {
	score := 0
	for i := range grades {
		g := &grades[i]
		if g.Status == models.StatusBlocked {
			continue
		}
		if g.Up {
			score++
		} else {
			score--
		}
	}
	return score
}
