package adapter

import "github.com/mmcdole/zapper/internal/domain"

const playlistBase = "https://raw.githubusercontent.com/josafra/tv/main/"

func country(key, name, file string) domain.Source {
	return domain.Source{Key: key, Name: name, URL: playlistBase + file, Kind: domain.SourceKindCountry}
}

func category(key, name string) domain.Source {
	return domain.Source{Key: key, Name: name, URL: playlistBase + key + ".m3u", Kind: domain.SourceKindCategory}
}

// DefaultSources returns the built-in country and category playlists
func DefaultSources() []domain.Source {
	return []domain.Source{
		// Countries
		country("mexico", "México", "mexico.m3u"),
		country("guatemala", "Guatemala", "guatemala.m3u"),
		country("elsalvador", "El Salvador", "elsalvador.m3u"),
		country("honduras", "Honduras", "honduras.m3u"),
		country("nicaragua", "Nicaragua", "nicaragua.m3u"),
		country("costarica", "Costa Rica", "costarica.m3u"),
		country("panama", "Panamá", "panama.m3u"),
		country("cuba", "Cuba", "cuba.m3u"),
		country("republicadominicana", "República Dominicana", "republicadominicana.m3u"),
		country("puertorico", "Puerto Rico", "puertorico.m3u"),
		country("venezuela", "Venezuela", "venezuela.m3u"),
		country("colombia", "Colombia", "colombia.m3u"),
		country("ecuador", "Ecuador", "ecuador.m3u"),
		country("peru", "Perú", "peru.m3u"),
		country("bolivia", "Bolivia", "bolivia.m3u"),
		country("paraguay", "Paraguay", "paraguay.m3u"),
		country("chile", "Chile", "chile.m3u"),
		country("argentina", "Argentina", "Argentina.m3u"),
		country("uruguay", "Uruguay", "uruguay.m3u"),
		country("espana", "España", "espana.m3u"),

		// Categories
		category("deportes", "Deportes"),
		category("noticias", "Noticias"),
		category("musica", "Música"),
		category("peliculas", "Películas"),
		category("series", "Series"),
		category("infantil", "Infantil"),
		category("documentales", "Documentales"),
		category("entretenimiento", "Entretenimiento"),
		category("cultura", "Cultura"),
		category("religion", "Religión"),
		category("cocina", "Cocina"),
		category("viajes", "Viajes"),
		category("tecnologia", "Tecnología"),
		category("salud", "Salud"),
		category("naturaleza", "Naturaleza"),
		category("ciencia", "Ciencia"),
		category("historia", "Historia"),
		category("educacion", "Educación"),
		category("variedades", "Variedades"),
	}
}
