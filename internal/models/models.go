package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Season{},
		&User{},
		&Golfer{},
		&Event{},
		&Performance{},
		&Team{},
		&TeamGolfer{},
	}
}
