package store

import "gorm.io/gorm/clause"

// Starter catalog so a fresh database is playable immediately. Upserts on
// catalog_index, so redeploys never duplicate rows.
var starterCatalog = []CatalogCard{
	{Name: "Emberling", MaxHP: 40, AttackPower: 12, Element: "fire", CatalogIndex: 1},
	{Name: "Pyroclast", MaxHP: 55, AttackPower: 18, Element: "fire", CatalogIndex: 2},
	{Name: "Cinder Fox", MaxHP: 35, AttackPower: 15, Element: "fire", CatalogIndex: 3},
	{Name: "Tidecaller", MaxHP: 45, AttackPower: 11, Element: "water", CatalogIndex: 4},
	{Name: "Deep Lurker", MaxHP: 60, AttackPower: 14, Element: "water", CatalogIndex: 5},
	{Name: "Mistral Ray", MaxHP: 38, AttackPower: 16, Element: "water", CatalogIndex: 6},
	{Name: "Thornback", MaxHP: 50, AttackPower: 13, Element: "grass", CatalogIndex: 7},
	{Name: "Moss Titan", MaxHP: 65, AttackPower: 10, Element: "grass", CatalogIndex: 8},
	{Name: "Briar Imp", MaxHP: 32, AttackPower: 17, Element: "grass", CatalogIndex: 9},
	{Name: "Voltwing", MaxHP: 36, AttackPower: 19, Element: "electric", CatalogIndex: 10},
	{Name: "Storm Herald", MaxHP: 48, AttackPower: 15, Element: "electric", CatalogIndex: 11},
	{Name: "Plains Strider", MaxHP: 52, AttackPower: 12, Element: "normal", CatalogIndex: 12},
}

func (s *Store) seedCatalog() error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "catalog_index"}},
		DoNothing: true,
	}).Create(&starterCatalog).Error
}
