package seed

// entry is one seed row: a date and a title, no description.
type entry struct {
	Date  string
	Title string
}

// seedData is the fixed dataset inserted on first run.
var seedData = []entry{
	{"2025-01-01", "Confraternização Universal"},
	{"2025-02-14", "Reunião de planejamento"},
	{"2025-03-03", "Carnaval"},
	{"2025-03-04", "Carnaval"},
	{"2025-04-18", "Sexta-feira Santa"},
	{"2025-04-21", "Tiradentes"},
	{"2025-05-01", "Dia do Trabalho"},
	{"2025-05-11", "Dia das Mães"},
	{"2025-06-19", "Corpus Christi"},
	{"2025-07-15", "Consulta médica"},
	{"2025-08-10", "Dia dos Pais"},
	{"2025-09-07", "Independência do Brasil"},
	{"2025-10-12", "Nossa Senhora Aparecida"},
	{"2025-11-02", "Finados"},
	{"2025-11-15", "Proclamação da República"},
	{"2025-11-20", "Consciência Negra"},
	{"2025-12-25", "Natal"},
	{"2025-12-31", "Véspera de Ano Novo"},
}
