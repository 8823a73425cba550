// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package rating

import (
	"testing"

	"github.com/tomtom215/confit/internal/models"
)

func grade(up bool, status models.Status) models.Grade {
	return models.Grade{Up: up, Status: status}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		grades []models.Grade
		want   int
	}{
		{
			name:   "no grades",
			grades: nil,
			want:   0,
		},
		{
			name: "all up",
			grades: []models.Grade{
				grade(true, models.StatusVisible),
				grade(true, models.StatusVisible),
				grade(true, models.StatusVisible),
			},
			want: 3,
		},
		{
			name: "net negative",
			grades: []models.Grade{
				grade(true, models.StatusVisible),
				grade(false, models.StatusVisible),
				grade(false, models.StatusVisible),
			},
			want: -1,
		},
		{
			name: "cancelled grades contribute nothing",
			grades: []models.Grade{
				grade(true, models.StatusVisible),
				grade(true, models.StatusBlocked),
				grade(false, models.StatusBlocked),
			},
			want: 1,
		},
		{
			name: "all cancelled",
			grades: []models.Grade{
				grade(true, models.StatusBlocked),
				grade(false, models.StatusBlocked),
			},
			want: 0,
		},
		{
			name: "balanced votes",
			grades: []models.Grade{
				grade(true, models.StatusVisible),
				grade(false, models.StatusVisible),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.grades); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreOrderIndependent(t *testing.T) {
	grades := []models.Grade{
		grade(true, models.StatusVisible),
		grade(false, models.StatusVisible),
		grade(true, models.StatusVisible),
		grade(true, models.StatusBlocked),
	}
	reversed := make([]models.Grade, len(grades))
	for i := range grades {
		reversed[len(grades)-1-i] = grades[i]
	}
	if Score(grades) != Score(reversed) {
		t.Errorf("Score() changed with order: %d vs %d", Score(grades), Score(reversed))
	}
}
