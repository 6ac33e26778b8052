// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/collate-app/collate/internal/observability"
	"github.com/collate-app/collate/internal/workspace"
)

// listPageSize is the number of pages returned per listing request.
const listPageSize = 100

// PageRepository implements workspace.PageRepository using PostgreSQL. The
// filtered listing composes the collection's filters, property set, and sort
// into one query with a left join per property against its typed propval
// relation.
type PageRepository struct {
	db          DB
	filters     workspace.FilterRepository
	properties  workspace.PropertyRepository
	collections workspace.CollectionRepository
}

// NewPageRepository creates a new PageRepository.
func NewPageRepository(db DB, filters workspace.FilterRepository, properties workspace.PropertyRepository, collections workspace.CollectionRepository) *PageRepository {
	return &PageRepository{
		db:          db,
		filters:     filters,
		properties:  properties,
		collections: collections,
	}
}

// Get retrieves a page with its content, when any. Props are not resolved
// here; ListPages and the propval repository cover that.
func (r *PageRepository) Get(ctx context.Context, id int32) (workspace.Page, error) {
	var (
		page    workspace.Page
		content *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.collection_id, p.title, pc.content
		FROM page p
		LEFT JOIN page_content pc ON pc.page_id = p.id
		WHERE p.id = $1
	`, id).Scan(&page.ID, &page.CollectionID, &page.Title, &content)
	if errors.Is(err, pgx.ErrNoRows) {
		return workspace.Page{}, oops.Code("PAGE_NOT_FOUND").With("page_id", id).Wrap(workspace.ErrNotFound)
	}
	if err != nil {
		return workspace.Page{}, oops.Code("PAGE_GET_FAILED").With("page_id", id).Wrap(err)
	}
	if content != nil {
		page.Content = &workspace.Content{PageID: id, Content: *content}
	}
	return page, nil
}

// Create inserts a new page into a collection.
func (r *PageRepository) Create(ctx context.Context, collectionID int32, title string) error {
	_, err := execerFromCtx(ctx, r.db).Exec(ctx,
		`INSERT INTO page (collection_id, title) VALUES ($1, $2)`,
		collectionID, title)
	if err != nil {
		return oops.Code("PAGE_CREATE_FAILED").With("collection_id", collectionID).Wrap(err)
	}
	return nil
}

// Save updates the page title.
func (r *PageRepository) Save(ctx context.Context, p workspace.Page) error {
	res, err := execerFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE page SET title = $1 WHERE id = $2`, p.Title, p.ID)
	if err != nil {
		return oops.Code("PAGE_SAVE_FAILED").With("page_id", p.ID).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return oops.Code("PAGE_NOT_FOUND").With("page_id", p.ID).Wrap(workspace.ErrNotFound)
	}
	return nil
}

// SaveContent upserts the page body, created lazily on first write.
func (r *PageRepository) SaveContent(ctx context.Context, c workspace.Content) error {
	_, err := execerFromCtx(ctx, r.db).Exec(ctx,
		`INSERT INTO page_content (page_id, content) VALUES ($1, $2)
		 ON CONFLICT (page_id) DO UPDATE SET content = $2`,
		c.PageID, c.Content)
	if err != nil {
		return oops.Code("CONTENT_SAVE_FAILED").With("page_id", c.PageID).Wrap(err)
	}
	return nil
}

// ListPages returns one result page of the collection's pages with property
// values resolved, narrowed by the collection's filters (implicit AND) and
// ordered by its sort when configured.
func (r *PageRepository) ListPages(ctx context.Context, collectionID int32, pageNumber int32) ([]workspace.Page, []workspace.Prop, error) {
	started := time.Now()

	var (
		filters []workspace.Filter
		props   []workspace.Prop
		sort    *workspace.CollectionSort
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		filters, err = r.filters.List(gctx, collectionID)
		return err
	})
	g.Go(func() error {
		var err error
		props, err = r.properties.ListByCollection(gctx, collectionID)
		return err
	})
	g.Go(func() error {
		s, err := r.collections.GetSort(gctx, collectionID)
		if errors.Is(err, workspace.ErrNotFound) {
			// Sorting not configured.
			return nil
		}
		if err != nil {
			return err
		}
		sort = &s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, oops.Code("PAGE_LIST_FAILED").With("collection_id", collectionID).Wrap(err)
	}

	sql, err := buildListQuery(collectionID, props, filters, sort, pageNumber)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, nil, oops.Code("PAGE_LIST_FAILED").With("collection_id", collectionID).Wrap(err)
	}
	defer rows.Close()

	pages, err := scanPageRows(rows, props)
	if err != nil {
		return nil, nil, oops.Code("PAGE_LIST_FAILED").With("collection_id", collectionID).Wrap(err)
	}

	observability.RecordPageList(time.Since(started))
	return pages, props, nil
}

// buildListQuery renders the listing query. Filter values are strongly typed
// scalars rendered through Value.SQL, so direct interpolation carries no
// injection vector; string-typed properties would force a move to bind
// parameters.
func buildListQuery(collectionID int32, props []workspace.Prop, filters []workspace.Filter, sort *workspace.CollectionSort, pageNumber int32) (string, error) {
	var q strings.Builder

	q.WriteString("SELECT page.id, page.title, page.collection_id")
	for _, p := range props {
		fmt.Fprintf(&q, ", prop%d.value AS prop%d", p.ID, p.ID)
	}
	q.WriteString(" FROM page")

	for _, p := range props {
		fmt.Fprintf(&q,
			" LEFT JOIN %s AS prop%d ON prop%d.page_id = page.id AND prop%d.prop_id = %d",
			propvalTables[p.Type], p.ID, p.ID, p.ID, p.ID)
	}

	fmt.Fprintf(&q, " WHERE page.collection_id = %d", collectionID)

	for _, f := range filters {
		pred, err := filterPredicate(f)
		if err != nil {
			return "", err
		}
		q.WriteString(" AND ")
		q.WriteString(pred)
	}

	if sort != nil && sort.PropID != nil && sort.Sort != nil {
		fmt.Fprintf(&q, " ORDER BY prop%d.value %s", *sort.PropID, sort.Sort.SQL())
	}

	fmt.Fprintf(&q, " LIMIT %d OFFSET %d", listPageSize, pageNumber*listPageSize)

	return q.String(), nil
}

// filterPredicate renders one stored filter as a SQL predicate over the
// page's aliased propval column.
func filterPredicate(f workspace.Filter) (string, error) {
	alias := fmt.Sprintf("prop%d.value", f.PropID)

	switch f.Type {
	case workspace.FilterEq, workspace.FilterNeq, workspace.FilterGt, workspace.FilterLt:
		single, ok := f.Value.Single()
		if !ok {
			return "", oops.Code("FILTER_COMBINATION_UNSUPPORTED").
				With("filter_type", f.Type.DisplayName()).
				Wrapf(workspace.ErrUnsupportedCombination, "%s filters cannot carry a range value", f.Type)
		}
		op, err := f.Type.Operator()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", alias, op, single.SQL()), nil

	case workspace.FilterIsEmpty:
		return alias + " IS NULL", nil

	case workspace.FilterInRange:
		start, end, ok := f.Value.Range()
		if !ok {
			return "", oops.Code("FILTER_COMBINATION_UNSUPPORTED").
				With("filter_type", f.Type.DisplayName()).
				Wrapf(workspace.ErrUnsupportedCombination, "%s filters cannot carry a single value", f.Type)
		}
		return fmt.Sprintf("%s > %s AND %s < %s", alias, start.SQL(), alias, end.SQL()), nil

	case workspace.FilterNotInRange:
		start, end, ok := f.Value.Range()
		if !ok {
			return "", oops.Code("FILTER_COMBINATION_UNSUPPORTED").
				With("filter_type", f.Type.DisplayName()).
				Wrapf(workspace.ErrUnsupportedCombination, "%s filters cannot carry a single value", f.Type)
		}
		return fmt.Sprintf("(%s < %s OR %s > %s)", alias, start.SQL(), alias, end.SQL()), nil

	default:
		return "", oops.Code("FILTER_TYPE_INVALID").
			Errorf("%d is not a valid filter type", f.Type.Int())
	}
}

// scanPageRows reads the listing result set. Each property column is
// nullable: a NULL means the page has no value for that property yet, which
// surfaces as an unset PageProp slot.
func scanPageRows(rows pgx.Rows, props []workspace.Prop) ([]workspace.Page, error) {
	pages := make([]workspace.Page, 0)
	for rows.Next() {
		var (
			id, collectionID int32
			title            string
		)

		holders := make([]any, len(props))
		for i, p := range props {
			switch p.Type {
			case workspace.TypeBool:
				holders[i] = new(*bool)
			case workspace.TypeInt:
				holders[i] = new(*int64)
			case workspace.TypeFloat:
				holders[i] = new(*float64)
			case workspace.TypeDate:
				holders[i] = new(*time.Time)
			}
		}

		targets := append([]any{&id, &title, &collectionID}, holders...)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		pageProps := make([]workspace.PageProp, len(props))
		for i, p := range props {
			pp := workspace.PageProp{PropID: p.ID, Type: p.Type}
			switch p.Type {
			case workspace.TypeBool:
				if v := *holders[i].(**bool); v != nil {
					val := workspace.BoolValue(*v)
					pp.Value = &val
				}
			case workspace.TypeInt:
				if v := *holders[i].(**int64); v != nil {
					val := workspace.IntValue(*v)
					pp.Value = &val
				}
			case workspace.TypeFloat:
				if v := *holders[i].(**float64); v != nil {
					val := workspace.FloatValue(*v)
					pp.Value = &val
				}
			case workspace.TypeDate:
				if v := *holders[i].(**time.Time); v != nil {
					val := workspace.DateValue(*v)
					pp.Value = &val
				}
			}
			pageProps[i] = pp
		}

		pages = append(pages, workspace.Page{
			ID:           id,
			CollectionID: collectionID,
			Title:        title,
			Props:        pageProps,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

// Compile-time interface check.
var _ workspace.PageRepository = (*PageRepository)(nil)
