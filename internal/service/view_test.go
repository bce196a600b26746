// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/piwpisz/bip-go/internal/store"
)

type fakeUsers struct {
	users map[int64]store.User
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int64) (store.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return store.User{}, sql.ErrNoRows
}

func TestNewArticleView(t *testing.T) {
	users := &fakeUsers{users: map[int64]store.User{
		1: {ID: 1, FirstName: "Jan", LastName: "Kowalski"},
		2: {ID: 2, FirstName: "Anna", LastName: "Nowak"},
	}}
	article := store.Article{
		ID:          10,
		Title:       "Komunikat",
		CreatedBy:   sql.NullInt64{Int64: 1, Valid: true},
		PublishedBy: sql.NullInt64{Int64: 2, Valid: true},
		UpdatedBy:   sql.NullInt64{Int64: 2, Valid: true},
	}

	view, err := NewArticleView(context.Background(), article, users)
	if err != nil {
		t.Fatalf("NewArticleView: %v", err)
	}
	if view.Author != "Jan Kowalski" {
		t.Errorf("Author = %q", view.Author)
	}
	if view.PublishedBy != "Anna Nowak" || view.UpdatedBy != "Anna Nowak" {
		t.Errorf("PublishedBy/UpdatedBy = %q/%q", view.PublishedBy, view.UpdatedBy)
	}
	// No explicit responsible person: the publisher stands in.
	if view.Responsible != "Anna Nowak" {
		t.Errorf("Responsible = %q", view.Responsible)
	}
	// The stored article is untouched.
	if article.Title != "Komunikat" || view.Article.ID != 10 {
		t.Error("source article mutated")
	}
}

func TestNewArticleViewResponsiblePersonWins(t *testing.T) {
	users := &fakeUsers{users: map[int64]store.User{
		2: {ID: 2, FirstName: "Anna", LastName: "Nowak"},
	}}
	article := store.Article{
		PublishedBy:       sql.NullInt64{Int64: 2, Valid: true},
		ResponsiblePerson: sql.NullString{String: "Powiatowy Lekarz Weterynarii", Valid: true},
	}

	view, err := NewArticleView(context.Background(), article, users)
	if err != nil {
		t.Fatal(err)
	}
	if view.Responsible != "Powiatowy Lekarz Weterynarii" {
		t.Errorf("Responsible = %q", view.Responsible)
	}
}

func TestNewArticleViewMissingUsers(t *testing.T) {
	users := &fakeUsers{users: map[int64]store.User{}}
	article := store.Article{
		CreatedBy: sql.NullInt64{Int64: 99, Valid: true},
	}

	view, err := NewArticleView(context.Background(), article, users)
	if err != nil {
		t.Fatalf("missing user should not fail: %v", err)
	}
	if view.Author != "" || view.Responsible != "" {
		t.Errorf("names = %q/%q, want empty", view.Author, view.Responsible)
	}
}

type fakeViewWriter struct {
	totals map[int64]int64
	err    error
}

func (f *fakeViewWriter) AddArticleViews(_ context.Context, id, delta int64) error {
	if f.err != nil {
		return f.err
	}
	if f.totals == nil {
		f.totals = make(map[int64]int64)
	}
	f.totals[id] += delta
	return nil
}

func TestViewCounterFlush(t *testing.T) {
	w := &fakeViewWriter{}
	c := NewViewCounter(w)

	c.Record(1)
	c.Record(1)
	c.Record(2)
	if c.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", c.Pending())
	}

	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if w.totals[1] != 2 || w.totals[2] != 1 {
		t.Errorf("totals = %v", w.totals)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending after flush = %d, want 0", c.Pending())
	}
}

func TestViewCounterFlushFailureRequeues(t *testing.T) {
	w := &fakeViewWriter{err: errors.New("db gone")}
	c := NewViewCounter(w)

	c.Record(5)
	if err := c.Flush(context.Background()); err == nil {
		t.Fatal("expected flush error")
	}
	if c.Pending() != 1 {
		t.Errorf("Pending = %d, want requeued delta", c.Pending())
	}

	w.err = nil
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("retry flush: %v", err)
	}
	if w.totals[5] != 1 {
		t.Errorf("totals = %v", w.totals)
	}
}
