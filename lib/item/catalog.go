// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultMaxStack is the stack limit of kinds the catalog does not
// know.
const DefaultMaxStack = 64

// Material describes the physical properties of a kind.
type Material struct {
	Name     Kind `yaml:"name" json:"name"`
	Edible   bool `yaml:"edible" json:"edible"`
	Block    bool `yaml:"block" json:"block"`
	MaxStack int  `yaml:"max_stack" json:"max_stack"`
}

// Validate checks that the material has a name and a positive stack
// limit.
func (m Material) Validate() error {
	if m.Name.IsVoid() {
		return fmt.Errorf("material has no name")
	}
	if m.Name != NormalizeKind(string(m.Name)) {
		return fmt.Errorf("material %q: name must be upper snake case", m.Name)
	}
	if m.MaxStack <= 0 {
		return fmt.Errorf("material %s: max_stack must be positive, got %d", m.Name, m.MaxStack)
	}
	return nil
}

// Catalog maps kinds to materials. The zero value knows no kinds.
// Catalogs are immutable; With returns an extended copy.
type Catalog struct {
	materials map[Kind]Material
}

// NewCatalog builds a catalog from materials. Later entries replace
// earlier ones with the same name.
func NewCatalog(materials ...Material) Catalog {
	return Catalog{}.With(materials...)
}

// With returns a copy of the catalog with materials added or replaced.
func (c Catalog) With(materials ...Material) Catalog {
	merged := make(map[Kind]Material, len(c.materials)+len(materials))
	maps.Copy(merged, c.materials)
	for _, material := range materials {
		merged[material.Name] = material
	}
	return Catalog{materials: merged}
}

// Lookup returns the material for kind. Unknown kinds are neither
// edible nor blocks and stack to DefaultMaxStack.
func (c Catalog) Lookup(kind Kind) Material {
	if material, ok := c.materials[kind]; ok {
		return material
	}
	return Material{Name: kind, MaxStack: DefaultMaxStack}
}

// Known reports whether kind has an explicit entry.
func (c Catalog) Known(kind Kind) bool {
	_, ok := c.materials[kind]
	return ok
}

// Kinds returns every known kind in lexical order.
func (c Catalog) Kinds() []Kind {
	return slices.Sorted(maps.Keys(c.materials))
}

// DefaultCatalog returns the built-in material table.
func DefaultCatalog() Catalog {
	var materials []Material

	single := func(names ...string) {
		for _, name := range names {
			materials = append(materials, Material{Name: Kind(name), MaxStack: 1})
		}
	}
	stackable := func(limit int, names ...string) {
		for _, name := range names {
			materials = append(materials, Material{Name: Kind(name), MaxStack: limit})
		}
	}
	food := func(limit int, names ...string) {
		for _, name := range names {
			materials = append(materials, Material{Name: Kind(name), Edible: true, MaxStack: limit})
		}
	}
	blocks := func(limit int, names ...string) {
		for _, name := range names {
			materials = append(materials, Material{Name: Kind(name), Block: true, MaxStack: limit})
		}
	}

	for _, tier := range []string{"WOODEN", "STONE", "IRON", "GOLDEN", "DIAMOND", "NETHERITE"} {
		single(tier+"_SWORD", tier+"_AXE", tier+"_PICKAXE", tier+"_SHOVEL", tier+"_HOE")
	}
	for _, tier := range []string{"LEATHER", "CHAINMAIL", "IRON", "GOLDEN", "DIAMOND", "NETHERITE"} {
		single(tier+"_HELMET", tier+"_CHESTPLATE", tier+"_LEGGINGS", tier+"_BOOTS")
	}
	single("BOW", "CROSSBOW", "TRIDENT", "SHIELD", "FISHING_ROD", "ELYTRA",
		"TOTEM_OF_UNDYING", "COMPASS", "CLOCK", "WATER_BUCKET", "LAVA_BUCKET")
	stackable(64, "ARROW", "DIAMOND", "EMERALD", "IRON_INGOT", "GOLD_INGOT",
		"STICK", "PAPER", "BOOK", "NAME_TAG", "REDSTONE", "COAL")
	stackable(16, "ENDER_PEARL", "BUCKET", "SNOWBALL", "EGG")

	food(64, "APPLE", "GOLDEN_APPLE", "ENCHANTED_GOLDEN_APPLE", "BREAD",
		"COOKED_BEEF", "COOKED_PORKCHOP", "COOKED_CHICKEN", "COOKED_MUTTON",
		"CARROT", "GOLDEN_CARROT", "POTATO", "BAKED_POTATO", "MELON_SLICE",
		"COOKIE", "PUMPKIN_PIE", "SWEET_BERRIES")
	food(1, "MUSHROOM_STEW", "RABBIT_STEW", "BEETROOT_SOUP")
	// Cake is placed as a block and eaten from the world.
	materials = append(materials, Material{Name: "CAKE", Edible: true, Block: true, MaxStack: 1})

	blocks(64, "STONE", "COBBLESTONE", "DIRT", "GRASS_BLOCK", "SAND", "GRAVEL",
		"OAK_LOG", "OAK_PLANKS", "GLASS", "TORCH", "CHEST", "FURNACE",
		"BLAST_FURNACE", "SMOKER", "CRAFTING_TABLE", "TNT", "BARREL", "HOPPER",
		"DISPENSER", "DROPPER", "BREWING_STAND", "DIAMOND_BLOCK", "IRON_BLOCK",
		"GOLD_BLOCK", "OBSIDIAN", "BOOKSHELF")
	blocks(1, "SHULKER_BOX")

	return NewCatalog(materials...)
}
