package analysis

import (
	"fmt"
	"strings"
)

// facts is what rule predicates see: the lowercased text and the detected
// symbol and emotion sets.
type facts struct {
	text     string
	symbols  []string
	emotions []string
	symSet   map[string]struct{}
	emoSet   map[string]struct{}
}

func newFacts(lower string, symbols, emotions []string) facts {
	f := facts{
		text:     lower,
		symbols:  symbols,
		emotions: emotions,
		symSet:   make(map[string]struct{}, len(symbols)),
		emoSet:   make(map[string]struct{}, len(emotions)),
	}
	for _, s := range symbols {
		f.symSet[s] = struct{}{}
	}
	for _, e := range emotions {
		f.emoSet[e] = struct{}{}
	}
	return f
}

func (f facts) has(symbol string) bool {
	_, ok := f.symSet[symbol]
	return ok
}

func (f facts) feels(emotion string) bool {
	_, ok := f.emoSet[emotion]
	return ok
}

func (f facts) mentions(words ...string) bool {
	return containsAny(f.text, words)
}

type rule struct {
	when func(facts) bool
	text string
}

func firstMatch(rules []rule, f facts) (string, bool) {
	for _, r := range rules {
		if r.when(f) {
			return r.text, true
		}
	}
	return "", false
}

func allMatches(rules []rule, f facts) []string {
	out := make([]string, 0)
	for _, r := range rules {
		if r.when(f) {
			out = append(out, r.text)
		}
	}
	return out
}

func symbolAndEmotion(symbol, emotion string) func(facts) bool {
	return func(f facts) bool { return f.has(symbol) && f.feels(emotion) }
}

func emotion(name string) func(facts) bool {
	return func(f facts) bool { return f.feels(name) }
}

func emotionPair(a, b string) func(facts) bool {
	return func(f facts) bool { return f.feels(a) && f.feels(b) }
}

func words(ws ...string) func(facts) bool {
	return func(f facts) bool { return f.mentions(ws...) }
}

// Opening line, keyed on the first detected emotion.
var openings = map[string]string{
	"peur":      "Ce rêve semble porteur d'inquiétudes : la peur qui s'y exprime signale souvent une situation de votre vie éveillée que vous ne maîtrisez pas encore.",
	"joie":      "Ce rêve rayonne d'une énergie positive : la joie ressentie reflète un état d'épanouissement ou l'attente d'un heureux changement.",
	"tristesse": "Ce rêve est empreint de mélancolie : la tristesse exprimée peut signaler une perte ou un besoin de réconfort.",
}

const (
	genericOpening = "Ce rêve est marqué par une émotion de %s, qui colore l'ensemble du récit et mérite votre attention."
	neutralOpening = "Ce rêve se présente de manière neutre sur le plan émotionnel, laissant les symboles raconter leur propre histoire."

	symbolsHeader  = "Symboles identifiés : %s."
	emotionsHeader = "Émotions détectées : %s."
	perspectives   = "Perspectives :"

	// Only the first few symbols get a detailed sentence.
	maxExplainedSymbols = 3
)

var symbolSentences = map[string]string{
	"eau":       "L'eau représente vos émotions et votre inconscient : son état dans le rêve reflète votre équilibre intérieur.",
	"voler":     "Voler exprime un désir de liberté et la volonté de vous élever au-dessus des contraintes du quotidien.",
	"tomber":    "La chute traduit souvent une peur de perdre le contrôle ou un manque de soutien.",
	"maison":    "La maison symbolise votre être intérieur : chaque pièce représente une facette de votre personnalité.",
	"mort":      "La mort en rêve annonce rarement une fin réelle : elle marque plutôt une transformation profonde.",
	"serpent":   "Le serpent incarne à la fois une menace et une sagesse cachée, signe d'une transformation en cours.",
	"feu":       "Le feu évoque une passion intense, une colère contenue ou un besoin de purification.",
	"ciel":      "Le ciel reflète vos aspirations et votre besoin d'horizons plus vastes.",
	"forêt":     "La forêt invite à explorer les zones encore inconnues de votre personnalité.",
	"miroir":    "Le miroir vous renvoie à votre image de soi et à la manière dont vous pensez être perçu.",
	"lumière":   "La lumière signale une prise de conscience ou un espoir qui se dessine.",
	"obscurité": "L'obscurité évoque l'inconnu et les peurs que vous n'avez pas encore affrontées.",
	"poursuite": "Être poursuivi révèle une situation ou une émotion que vous cherchez à éviter.",
	"dents":     "Perdre ses dents renvoie souvent à l'image que vous donnez aux autres.",
	"examen":    "L'examen traduit une peur d'être jugé ou de ne pas être à la hauteur.",
}

var emotionRules = []rule{
	{emotionPair("peur", "joie"), "Le mélange de peur et de joie suggère une ambivalence face à un changement important de votre vie."},
	{emotion("peur"), "La peur ressentie peut refléter des anxiétés de la vie éveillée qui demandent à être reconnues."},
	{emotion("joie"), "La joie présente dans ce rêve témoigne d'un état d'esprit positif et d'une certaine confiance en l'avenir."},
	{emotion("tristesse"), "La tristesse exprimée invite à accueillir un chagrin ou une perte qui n'a pas encore été pleinement vécu."},
}

const serenitySentence = "La sérénité qui se dégage du rêve indique un apaisement intérieur et une bonne harmonie avec vous-même."

var cueRules = []rule{
	{words("vol", "envol", "courir", "courais", "fuir", "fuyais"), "Le mouvement présent dans ce rêve traduit un besoin d'avancer et de vous affranchir de certaines limites."},
	{words("tomb", "chute"), "La sensation de chute évoque une perte de repères ou la crainte d'un échec."},
	{words("mère", "père", "frère", "sœur", "famille", "parents"), "La présence de figures familiales renvoie à vos racines et aux liens qui vous ont construit."},
	{words("amour", "amoureu", "couple", "partenaire", "baiser", "mariage"), "Les éléments amoureux du rêve invitent à examiner vos besoins affectifs actuels."},
}

var perspectiveRules = []rule{
	{symbolAndEmotion("eau", "sérénité"), "L'eau paisible associée à la sérénité invite à accueillir vos émotions avec confiance : c'est un moment propice au lâcher-prise."},
	{symbolAndEmotion("voler", "joie"), "Voler dans la joie annonce une période d'élan : osez poursuivre les projets qui vous tiennent à cœur."},
	{symbolAndEmotion("maison", "peur"), "Une maison habitée par la peur suggère de prendre soin de votre espace intérieur et d'identifier ce qui fragilise votre sentiment de sécurité."},
}

const genericPerspective = "Prenez le temps de noter les détails de ce rêve : les images qui vous ont marqué sont des pistes précieuses pour mieux vous comprendre."

var closingSentences = []string{
	"Tenir un journal de rêves régulier permet de repérer des motifs récurrents au fil du temps.",
	"Ces pistes restent des interprétations : vous seul pouvez leur donner leur sens véritable.",
}

var insightRules = []rule{
	{symbolAndEmotion("eau", "peur"), "Votre rapport à vos émotions profondes semble source d'appréhension."},
	{symbolAndEmotion("voler", "joie"), "Vous aspirez à une liberté que vous commencez à vous accorder."},
	{symbolAndEmotion("maison", "sérénité"), "Vous vous sentez en sécurité dans votre environnement actuel."},
	{symbolAndEmotion("mort", "tristesse"), "Vous traversez peut-être la fin d'une étape importante de votre vie."},
	{symbolAndEmotion("tomber", "peur"), "Une crainte de l'échec ou de la perte de contrôle semble vous habiter."},
	{symbolAndEmotion("serpent", "peur"), "Une situation ou une personne de votre entourage vous paraît menaçante."},
	{symbolAndEmotion("lumière", "joie"), "Un espoir nouveau éclaire votre chemin."},
	{func(f facts) bool { return len(f.emotions) > 2 }, "La richesse émotionnelle de ce rêve reflète une période intense sur le plan intérieur."},
	{emotionPair("peur", "joie"), "L'ambivalence entre peur et joie signale un changement à la fois désiré et redouté."},
	{func(f facts) bool { return len(f.symbols) > 3 }, "La densité symbolique de ce rêve indique un travail intense de votre inconscient."},
	{func(f facts) bool { return f.has("lumière") && f.has("obscurité") }, "L'opposition entre lumière et obscurité traduit un conflit intérieur en voie de résolution."},
}

type themeRule struct {
	label   string
	symbols []string
	words   []string
}

// papillon, oiseau and cocon are not symbol keys, so the symbol half of
// these rules can never see them; only the word half can.
var themeRules = []themeRule{
	{label: "Transformation", symbols: []string{"mort", "serpent", "feu", "eau", "papillon"}, words: []string{"papillon", "métamorphose", "renaissance"}},
	{label: "Liberté", symbols: []string{"voler", "oiseau", "ciel", "montagne"}, words: []string{"oiseau", "liberté", "évasion"}},
	{label: "Sécurité", symbols: []string{"maison", "famille", "enfant", "cocon"}, words: []string{"cocon", "refuge", "protection"}},
	{label: "Vie professionnelle", words: []string{"travail", "bureau", "patron", "collègue", "réunion", "métier"}},
	{label: "Relations amoureuses", words: []string{"amour", "amoureu", "couple", "partenaire", "baiser", "mariage"}},
	{label: "Apprentissage", words: []string{"école", "examen", "professeur", "apprendre", "leçon"}},
	{label: "Voyage et quête", words: []string{"voyage", "chemin", "route", "quête", "partir", "explor"}},
	{label: "Passé et mémoire", words: []string{"souvenir", "enfance", "passé", "autrefois", "nostalgi"}},
}

func matchThemes(f facts) []string {
	out := make([]string, 0)
	for _, t := range themeRules {
		hit := false
		for _, s := range t.symbols {
			if f.has(s) {
				hit = true
				break
			}
		}
		if hit || f.mentions(t.words...) {
			out = append(out, t.label)
		}
	}
	return out
}

func interpret(f facts) string {
	var blocks []string

	blocks = append(blocks, opening(f))

	if len(f.symbols) > 0 {
		lines := []string{fmt.Sprintf(symbolsHeader, strings.Join(f.symbols, ", "))}
		for i, s := range f.symbols {
			if i >= maxExplainedSymbols {
				break
			}
			if sentence, ok := symbolSentences[s]; ok {
				lines = append(lines, sentence)
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if len(f.emotions) > 0 {
		lines := []string{fmt.Sprintf(emotionsHeader, strings.Join(f.emotions, ", "))}
		if sentence, ok := firstMatch(emotionRules, f); ok {
			lines = append(lines, sentence)
		}
		if f.feels("sérénité") {
			lines = append(lines, serenitySentence)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if cues := allMatches(cueRules, f); len(cues) > 0 {
		blocks = append(blocks, strings.Join(cues, "\n"))
	}

	closing := []string{perspectives}
	if sentence, ok := firstMatch(perspectiveRules, f); ok {
		closing = append(closing, sentence)
	} else {
		closing = append(closing, genericPerspective)
	}
	closing = append(closing, closingSentences...)
	blocks = append(blocks, strings.Join(closing, "\n"))

	return strings.Join(blocks, "\n\n")
}

func opening(f facts) string {
	if len(f.emotions) == 0 {
		return neutralOpening
	}
	first := f.emotions[0]
	if s, ok := openings[first]; ok {
		return s
	}
	return fmt.Sprintf(genericOpening, first)
}
