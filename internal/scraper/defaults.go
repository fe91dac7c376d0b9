package scraper

// RegisterDefaults wires the built-in marketplace adapters under the
// source names the seeder creates. Empty base URLs fall back to each
// adapter's production host.
func RegisterDefaults(r *Registry) {
	r.Register("bietbox", NewBietboxAdapter(""))
	r.Register("trouvaille", NewTrouvailleAdapter(""))
	r.Register("occasio", NewOccasioAdapter(""))
	r.Register("blitzmarkt", NewBlitzmarktAdapter(""))
}
