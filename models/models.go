package models

// All lists every model managed by AutoMigrate, parents first
func All() []interface{} {
	return []interface{}{
		&User{},
		&Brand{},
		&CarModel{},
		&Car{},
		&CarPhoto{},
		&CarOption{},
		&Order{},
	}
}
