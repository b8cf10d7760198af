package text

import "strings"

// italianStopwords covers function words, auxiliaries, conversational fillers
// and the generic nouns that dominate session transcripts without carrying
// a theme.
var italianStopwords = buildSet(`
il lo la i gli le un uno una dell della del dello delle dei degli
al allo alla ai agli alle dal dallo dalla dai dagli dalle
nel nello nella nei negli nelle sul sullo sulla sui sugli sulle
di a da in con su per tra fra dentro sopra sotto verso attraverso
io tu lui lei noi voi loro mi ti si ci vi li ne me te se ce ve
mio mia miei mie tuo tua tuoi tue suo sua suoi sue nostro nostra vostro vostra
questa questo questi queste quello quella quelli quelle che chi cui quale quali
e ed o od ma però anche pure quando mentre come perché perche poiché
dato visto siccome quindi allora infatti inoltre invece tuttavia cioè ecco
molto molta molti molte più meno poco tanto assai abbastanza piuttosto ancora già sempre mai
spesso talvolta qui qua lì là dove bene male meglio peggio niente nulla
essere avere fare dire andare venire stare dare sapere vedere dovere potere volere
sono sei è siamo siete erano ero eri era eravamo eravate stato stata stati
ho hai ha abbiamo avete hanno avevo aveva avevano
faccio fai fa facciamo fate fanno fatto vado vai va andiamo andate vanno
tutto tutti tutta tutte altro altri altra altre ogni alcuni alcune qualche
stesso stessa stessi stesse proprio propria propri proprie tale tali
così davvero veramente sì no eh ah oh beh insomma diciamo credo penso
cosa cose volta volte anno anni tempo parte modo momento insieme oggi ieri domani poi
non nei perché quanto quanta forse solo
`)

var englishStopwords = buildSet(`
a an the and or but if then else when while of at by for with about against between
into through during before after above below to from up down in out on off over under
again further once here there where why how all any both each few more most other some
such nor not only own same so than too very can will just don should now
i me my myself we our ours ourselves you your yours yourself yourselves he him his himself
she her hers herself it its itself they them their theirs themselves what which who whom
this that these those am is are was were be been being have has had having do does did
doing would could ought also really like yeah okay well thing things kind sort
get got getting going gonna know think mean just maybe something anything everything
`)

func buildSet(raw string) map[string]struct{} {
	fields := strings.Fields(raw)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func stopwordSet(lang Language) map[string]struct{} {
	if lang == English {
		return englishStopwords
	}
	return italianStopwords
}

func IsStopword(word string, lang Language) bool {
	_, ok := stopwordSet(lang)[word]
	return ok
}
