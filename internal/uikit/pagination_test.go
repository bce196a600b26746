// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/http/httptest"
	"testing"
)

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		totalItems, perPage, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := CalculateTotalPages(tt.totalItems, tt.perPage); got != tt.want {
			t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d",
				tt.totalItems, tt.perPage, got, tt.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, totalPages, want int
	}{
		{0, 5, 1},
		{-3, 5, 1},
		{1, 5, 1},
		{5, 5, 5},
		{9, 5, 5},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.totalPages); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d",
				tt.page, tt.totalPages, got, tt.want)
		}
	}
}

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/menu/ogloszenia", 1},
		{"/menu/ogloszenia?page=", 1},
		{"/menu/ogloszenia?page=abc", 1},
		{"/menu/ogloszenia?page=0", 1},
		{"/menu/ogloszenia?page=-2", 1},
		{"/menu/ogloszenia?page=3", 3},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		if got := ParsePageParam(r); got != tt.want {
			t.Errorf("ParsePageParam(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(2, 25, 10, "/menu/ogloszenia")

	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if !p.HasPrev || !p.HasNext {
		t.Error("page 2 of 3 should have both prev and next")
	}
	if p.PrevURL != "/menu/ogloszenia?page=1" {
		t.Errorf("PrevURL = %q", p.PrevURL)
	}
	if p.NextURL != "/menu/ogloszenia?page=3" {
		t.Errorf("NextURL = %q", p.NextURL)
	}
	if !p.ShouldShow() {
		t.Error("ShouldShow should be true for 3 pages")
	}
	if len(p.Pages) != 3 {
		t.Errorf("len(Pages) = %d, want 3", len(p.Pages))
	}
	if !p.Pages[1].IsCurrent {
		t.Error("second page link should be current")
	}
}

func TestBuildPaginationClampsPage(t *testing.T) {
	p := BuildPagination(99, 11, 10, "/menu/ogloszenia")
	if p.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want clamped to 2", p.CurrentPage)
	}

	p = BuildPagination(1, 5, 10, "/menu/ogloszenia")
	if p.ShouldShow() {
		t.Error("single page should not show pagination")
	}
}

func TestBuildPaginationEllipsis(t *testing.T) {
	p := BuildPagination(10, 200, 10, "/menu/ogloszenia")

	var ellipses int
	for _, page := range p.Pages {
		if page.IsEllipsis {
			ellipses++
		}
	}
	if ellipses != 2 {
		t.Errorf("ellipsis count = %d, want 2 for middle page of 20", ellipses)
	}
	if p.Pages[0].Number != 1 {
		t.Error("first link should be page 1")
	}
	if p.Pages[len(p.Pages)-1].Number != 20 {
		t.Error("last link should be page 20")
	}
}
