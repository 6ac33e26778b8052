// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Collate Contributors

//go:build integration

package workspace_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/collate-app/collate/internal/workspace"
)

var _ = Describe("Property reordering", func() {
	var (
		ctx          context.Context
		collectionID int32
		first        workspace.Prop
		second       workspace.Prop
		third        workspace.Prop
	)

	propNames := func(props []workspace.Prop) []string {
		names := make([]string, len(props))
		for i, p := range props {
			names[i] = p.Name
		}
		return names
	}

	BeforeEach(func() {
		ctx = context.Background()
		cleanupCollections(ctx, env.pool)

		collectionID = createTestCollection(ctx, "Inventory")
		first = createTestProperty(ctx, collectionID, "Name", workspace.TypeBool, 1)
		second = createTestProperty(ctx, collectionID, "Count", workspace.TypeInt, 2)
		third = createTestProperty(ctx, collectionID, "Restocked", workspace.TypeDate, 3)
	})

	It("swaps ordinals with the next neighbor on a downward move", func() {
		props, err := env.Service.Reorder(ctx, second.ID, workspace.MoveDown)
		Expect(err).NotTo(HaveOccurred())
		Expect(propNames(props)).To(Equal([]string{"Name", "Restocked", "Count"}))

		// The swap is persisted, not just reflected in the return value.
		got, err := env.Properties.Get(ctx, second.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Ordinal).To(Equal(int16(3)))
	})

	It("swaps ordinals with the previous neighbor on an upward move", func() {
		props, err := env.Service.Reorder(ctx, third.ID, workspace.MoveUp)
		Expect(err).NotTo(HaveOccurred())
		Expect(propNames(props)).To(Equal([]string{"Name", "Restocked", "Count"}))
	})

	It("treats moves past either boundary as no-ops", func() {
		props, err := env.Service.Reorder(ctx, first.ID, workspace.MoveUp)
		Expect(err).NotTo(HaveOccurred())
		Expect(propNames(props)).To(Equal([]string{"Name", "Count", "Restocked"}))

		props, err = env.Service.Reorder(ctx, third.ID, workspace.MoveDown)
		Expect(err).NotTo(HaveOccurred())
		Expect(propNames(props)).To(Equal([]string{"Name", "Count", "Restocked"}))
	})

	It("returns ErrNotFound for an unknown property", func() {
		_, err := env.Service.Reorder(ctx, 999999, workspace.MoveDown)
		Expect(err).To(MatchError(workspace.ErrNotFound))
	})

	It("rejects duplicate names within a collection", func() {
		p := workspace.Prop{
			CollectionID: collectionID,
			Name:         "Count",
			Type:         workspace.TypeFloat,
			Ordinal:      4,
		}
		err := env.Properties.Create(ctx, &p)
		Expect(err).To(HaveOccurred())
		Expect(err).To(MatchError(ContainSubstring("already")))
	})
})
