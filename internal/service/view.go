// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/piwpisz/bip-go/internal/store"
)

// UserLookup resolves actor ids to user rows for the metryczka block.
// Implemented by *store.Queries.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (store.User, error)
}

// ArticleView is an article enriched with the display names required by the
// metryczka (the public record block every BIP page carries). The stored
// entity is never mutated; this is a derived value.
type ArticleView struct {
	store.Article
	Author      string
	Responsible string
	PublishedBy string
	UpdatedBy   string
}

// NewArticleView builds the enriched view of an article. A missing user
// resolves to an empty name, not an error; any other lookup failure
// propagates. The responsible person field on the article itself wins over
// the publishing user's name.
func NewArticleView(ctx context.Context, article store.Article, users UserLookup) (ArticleView, error) {
	view := ArticleView{Article: article}

	var err error
	if view.Author, err = lookupName(ctx, users, article.CreatedBy); err != nil {
		return ArticleView{}, err
	}
	if view.PublishedBy, err = lookupName(ctx, users, article.PublishedBy); err != nil {
		return ArticleView{}, err
	}
	if view.UpdatedBy, err = lookupName(ctx, users, article.UpdatedBy); err != nil {
		return ArticleView{}, err
	}

	if article.ResponsiblePerson.Valid && article.ResponsiblePerson.String != "" {
		view.Responsible = article.ResponsiblePerson.String
	} else {
		view.Responsible = view.PublishedBy
	}

	return view, nil
}

func lookupName(ctx context.Context, users UserLookup, id sql.NullInt64) (string, error) {
	if !id.Valid {
		return "", nil
	}
	user, err := users.GetUserByID(ctx, id.Int64)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", storageErr(err)
	}
	return user.FullName(), nil
}
