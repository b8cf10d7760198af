package topic

import (
	"strings"

	"github.com/xxxsen/transcript-analytics/internal/text"
)

type family struct {
	stems  []string
	labels map[text.Language]string
}

// families are checked in order; the first one with a stem inside any
// topic keyword names the topic.
var families = []family{
	{[]string{"lavor", "uffic", "capo", "colleg", "carriera", "work", "job", "boss", "office", "career"},
		map[text.Language]string{text.Italian: "Ambito Lavorativo", text.English: "Work Life"}},
	{[]string{"famigl", "madre", "padre", "genitor", "figli", "fratel", "sorell", "mamma", "papà", "family", "mother", "father", "parent", "brother", "sister"},
		map[text.Language]string{text.Italian: "Dinamiche Familiari", text.English: "Family Dynamics"}},
	{[]string{"ansia", "ansios", "stress", "preoccup", "paura", "panico", "anxi", "worr", "fear", "panic"},
		map[text.Language]string{text.Italian: "Gestione Ansia", text.English: "Anxiety Management"}},
	{[]string{"relazion", "partner", "amore", "fidanzat", "marito", "moglie", "relationship", "love", "husband", "wife", "boyfriend", "girlfriend"},
		map[text.Language]string{text.Italian: "Relazioni Sentimentali", text.English: "Romantic Relationships"}},
	{[]string{"studi", "università", "esam", "scuola", "lezion", "study", "university", "exam", "school"},
		map[text.Language]string{text.Italian: "Percorso Accademico", text.English: "Academic Path"}},
	{[]string{"amic", "social", "grupp", "persone", "friend", "people", "group"},
		map[text.Language]string{text.Italian: "Impegno Sociale", text.English: "Social Engagement"}},
	{[]string{"corpo", "salute", "sonno", "dorm", "mangi", "body", "health", "sleep", "eating"},
		map[text.Language]string{text.Italian: "Benessere Fisico", text.English: "Physical Wellbeing"}},
	{[]string{"futur", "obiettiv", "progett", "cambiament", "future", "goal", "plan", "change"},
		map[text.Language]string{text.Italian: "Prospettive Future", text.English: "Future Outlook"}},
	{[]string{"emozion", "sentiment", "triste", "tristezza", "rabbia", "felic", "emotion", "feeling", "sad", "anger", "happ"},
		map[text.Language]string{text.Italian: "Elaborazione Emotiva", text.English: "Emotional Processing"}},
}

var generalLabel = map[text.Language]string{
	text.Italian: "Riflessione Generale",
	text.English: "General Reflection",
}

func Label(words []string, lang text.Language) string {
	for _, f := range families {
		for _, w := range words {
			for _, stem := range f.stems {
				if strings.Contains(w, stem) {
					return labelFor(f.labels, lang)
				}
			}
		}
	}
	return labelFor(generalLabel, lang)
}

func labelFor(m map[text.Language]string, lang text.Language) string {
	if l, ok := m[lang]; ok {
		return l
	}
	return m[text.Italian]
}
