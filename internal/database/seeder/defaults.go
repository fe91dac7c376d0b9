package seeder

func Defaults() []Seeder {
	return []Seeder{
		SourcesSeeder{},
		SearchTermsSeeder{},
	}
}
