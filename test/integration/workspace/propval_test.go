// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

//go:build integration

package workspace_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/collate-app/collate/internal/workspace"
)

var _ = Describe("PropValRepository", func() {
	var (
		ctx          context.Context
		collectionID int32
		pageID       int32
	)

	BeforeEach(func() {
		ctx = context.Background()
		cleanupCollections(ctx, env.pool)

		collectionID = createTestCollection(ctx, "Reading List")
		pageID = createTestPage(ctx, collectionID, "The Go Programming Language")
	})

	Describe("Get", func() {
		It("returns ErrNotFound for a property with no value", func() {
			rating := createTestProperty(ctx, collectionID, "Rating", workspace.TypeInt, 1)

			_, err := env.PropVals.Get(ctx, pageID, rating.ID)
			Expect(err).To(MatchError(workspace.ErrNotFound))
		})

		It("resolves the value type from the property schema", func() {
			finished := createTestProperty(ctx, collectionID, "Finished", workspace.TypeDate, 1)
			want := workspace.DateValue(time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC))

			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: pageID, PropID: finished.ID, Value: want,
			})).To(Succeed())

			got, err := env.PropVals.Get(ctx, pageID, finished.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Value).To(Equal(want))
		})
	})

	Describe("Save", func() {
		It("overwrites on repeated saves, keeping one row", func() {
			rating := createTestProperty(ctx, collectionID, "Rating", workspace.TypeInt, 1)

			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: pageID, PropID: rating.ID, Value: workspace.IntValue(3),
			})).To(Succeed())
			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: pageID, PropID: rating.ID, Value: workspace.IntValue(5),
			})).To(Succeed())

			got, err := env.PropVals.GetTyped(ctx, pageID, rating.ID, workspace.TypeInt)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Value).To(Equal(workspace.IntValue(5)))

			var rows int
			err = env.pool.QueryRow(ctx,
				"SELECT count(1) FROM propval_int WHERE page_id = $1 AND prop_id = $2",
				pageID, rating.ID).Scan(&rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(1))
		})

		It("stores each value type in its own relation", func() {
			owned := createTestProperty(ctx, collectionID, "Owned", workspace.TypeBool, 1)
			price := createTestProperty(ctx, collectionID, "Price", workspace.TypeFloat, 2)

			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: pageID, PropID: owned.ID, Value: workspace.BoolValue(true),
			})).To(Succeed())
			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: pageID, PropID: price.ID, Value: workspace.FloatValue(34.99),
			})).To(Succeed())

			var count int
			Expect(env.pool.QueryRow(ctx,
				"SELECT count(1) FROM propval_bool").Scan(&count)).To(Succeed())
			Expect(count).To(Equal(1))
			Expect(env.pool.QueryRow(ctx,
				"SELECT count(1) FROM propval_float").Scan(&count)).To(Succeed())
			Expect(count).To(Equal(1))
		})
	})

	Describe("List", func() {
		It("collects values across all typed relations for the given pages", func() {
			owned := createTestProperty(ctx, collectionID, "Owned", workspace.TypeBool, 1)
			rating := createTestProperty(ctx, collectionID, "Rating", workspace.TypeInt, 2)
			otherPage := createTestPage(ctx, collectionID, "Unix Network Programming")

			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: pageID, PropID: owned.ID, Value: workspace.BoolValue(true),
			})).To(Succeed())
			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: pageID, PropID: rating.ID, Value: workspace.IntValue(5),
			})).To(Succeed())
			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: otherPage, PropID: rating.ID, Value: workspace.IntValue(4),
			})).To(Succeed())

			vals, err := env.PropVals.List(ctx, []int32{pageID})
			Expect(err).NotTo(HaveOccurred())
			Expect(vals).To(HaveLen(2))
			for _, v := range vals {
				Expect(v.PageID).To(Equal(pageID))
			}
		})
	})

	Describe("cascade", func() {
		It("drops values when their property is deleted", func() {
			rating := createTestProperty(ctx, collectionID, "Rating", workspace.TypeInt, 1)
			Expect(env.PropVals.Save(ctx, workspace.PropVal{
				PageID: pageID, PropID: rating.ID, Value: workspace.IntValue(5),
			})).To(Succeed())

			Expect(env.Properties.Delete(ctx, rating.ID)).To(Succeed())

			_, err := env.PropVals.GetTyped(ctx, pageID, rating.ID, workspace.TypeInt)
			Expect(err).To(MatchError(workspace.ErrNotFound))
		})
	})
})
