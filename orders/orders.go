// Package orders holds the canonical name lists used to overlay a partial
// fixed ordering on top of the alphabetical sort Wad.Sort applies to
// sprites, textures, and flats. The reference game ships its lumps in an
// order that mostly-but-not-quite follows the alphabet; entries named here
// are pulled to the front of their category, in this order, ahead of
// everything else.
//
// The original ordering tables were not part of the retrieved source (only
// the algorithm that walks them, in Wad::order_fixed, was available), so
// these lists are a representative reconstruction covering the common
// early-game sprite/texture/flat names rather than a verbatim transcript of
// the shipped tables. Callers that need the exact shipped order should
// override these via SetSpriteOrder / SetTextureOrder / SetFlatOrder.
package orders

// spriteOrder lists the canonical monster/item/weapon sprite prefixes in
// the order the reference IWAD lays them out.
var spriteOrder = []string{
	"TROO", "SHTG", "PUNG", "PISG", "PISF", "SHTF", "SHT2", "CHGG", "CHGF",
	"MISG", "MISF", "SAWG", "PLSG", "PLSF", "BFGG", "BFGF", "BLUD", "PUFF",
	"BAL1", "BAL2", "BAL7", "PLSS", "PLSE", "MISL", "BFS1", "BFE1", "BFE2",
	"TRE1", "TRE2", "TRE3", "SMBT", "SMGT", "SMRT", "POSS", "SPOS", "VILE",
	"FIRE", "FATB", "FBXP", "SKEL", "MANF", "FATT", "FATS", "FOG",
	"TRAC", "TFOG", "IFOG", "CPOS", "HEAD", "BOSS", "SKUL", "SPID", "BSPI",
	"APLS", "APBX", "CYBR", "PAIN", "SSWV", "KEEN", "BBRN", "BOSF", "ARM1",
	"ARM2", "BAR1", "BEXP", "FCAN", "CAND", "BLON", "BLN2", "CBRA", "COL1",
	"COL2", "COL3", "COL4", "COL5", "COL6", "CANE", "CBRE", "CEYE", "FSKU",
	"COL9", "HDB1", "HDB2", "HDB3", "HDB4", "HDB5", "HDB6", "POB1", "POB2",
	"BRS1", "TLMP", "TLP2", "CLIP", "AMMO", "ROCK", "BROK", "CELL", "CELP",
	"SHEL", "SBOX", "BPAK", "BFUG", "MGUN", "CSAW", "LAUN", "PLAS", "SHOT",
	"SGN2", "CHGN", "STIM", "MEDI", "SOUL", "PINV", "PSTR", "PINS", "SUIT",
	"PMAP", "PVIS", "MEGA",
}

// textureOrder lists wall texture names in canonical order. The game's
// textures largely follow alphabetical order already; this list only
// pins the handful that the reference build places ahead of it.
var textureOrder = []string{
	"STARTAN3", "AASTINKY", "BIGDOOR1", "BIGDOOR2", "BIGDOOR3", "BIGDOOR4",
	"BRNBIGC", "BRNBIGL", "BRNBIGR", "BROWN1", "BROWN144", "BROWN96",
	"BROWNGRN", "BROWNHUG", "BROWNPIP",
}

// flatOrder lists floor/ceiling flat names in canonical order: the static
// FLOOR flats first, then the animated nukage/water/lava/blood sequences.
var flatOrder = []string{
	"FLOOR0_1", "FLOOR0_3", "FLOOR0_6", "FLOOR1_1", "FLOOR1_6", "FLOOR1_7",
	"FLOOR3_3", "FLOOR4_1", "FLOOR4_5", "FLOOR4_6", "FLOOR4_8", "FLOOR5_1",
	"FLOOR5_2", "FLOOR5_3", "FLOOR5_4", "FLOOR6_1", "FLOOR6_2", "FLOOR7_1",
	"FLOOR7_2", "NUKAGE1", "NUKAGE2", "NUKAGE3", "FWATER1", "FWATER2",
	"FWATER3", "FWATER4", "LAVA1", "LAVA2", "LAVA3", "LAVA4", "BLOOD1",
	"BLOOD2", "BLOOD3",
}

// SpriteOrder returns the canonical sprite-prefix order.
func SpriteOrder() []string { return spriteOrder }

// TextureOrder returns the canonical texture-name order.
func TextureOrder() []string { return textureOrder }

// FlatOrder returns the canonical flat-name order.
func FlatOrder() []string { return flatOrder }

// SetSpriteOrder overrides the canonical sprite order, for callers that
// have recovered the exact shipped table.
func SetSpriteOrder(order []string) { spriteOrder = order }

// SetTextureOrder overrides the canonical texture order.
func SetTextureOrder(order []string) { textureOrder = order }

// SetFlatOrder overrides the canonical flat order.
func SetFlatOrder(order []string) { flatOrder = order }
