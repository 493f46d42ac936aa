package lexicon

var defaultSymbols = []Symbol{
	{Key: "eau", Meaning: "Les émotions, l'inconscient et la purification"},
	{Key: "voler", Meaning: "Le désir de liberté et le dépassement des limites", Triggers: []string{"vol"}},
	{Key: "tomber", Meaning: "La perte de contrôle et l'insécurité", Triggers: []string{"tomb", "chute"}},
	{Key: "maison", Meaning: "Le soi et la sécurité intérieure", Triggers: []string{"demeure"}},
	{Key: "mort", Meaning: "La transformation et la fin d'un cycle", Triggers: []string{"mourir", "mourais", "décès"}},
	{Key: "serpent", Meaning: "Une sagesse cachée ou une menace"},
	{Key: "feu", Meaning: "La passion, la colère ou la purification", Triggers: []string{"flamme", "incendie"}},
	{Key: "ciel", Meaning: "Les aspirations et la spiritualité"},
	{Key: "mer", Meaning: "L'immensité des émotions profondes", Triggers: []string{"océan"}},
	{Key: "forêt", Meaning: "L'inconnu et l'exploration de soi", Triggers: []string{"foret", "bois"}},
	{Key: "montagne", Meaning: "Les obstacles et l'ambition", Triggers: []string{"sommet"}},
	{Key: "enfant", Meaning: "L'innocence et l'enfant intérieur", Triggers: []string{"bébé"}},
	{Key: "famille", Meaning: "Les racines et les liens affectifs", Triggers: []string{"familial"}},
	{Key: "voiture", Meaning: "La direction de vie et le contrôle", Triggers: []string{"conduire", "conduisais"}},
	{Key: "train", Meaning: "Le parcours de vie et la destinée", Triggers: []string{"gare"}},
	{Key: "avion", Meaning: "Les projets ambitieux et le changement rapide", Triggers: []string{"aéroport"}},
	{Key: "porte", Meaning: "Les opportunités et les transitions"},
	{Key: "clé", Meaning: "Les solutions et l'accès à un savoir caché", Triggers: []string{"clef"}},
	{Key: "miroir", Meaning: "L'image de soi et l'introspection", Triggers: []string{"reflet"}},
	{Key: "lumière", Meaning: "La conscience, l'espoir et la révélation", Triggers: []string{"lumineu", "soleil", "brill"}},
	{Key: "obscurité", Meaning: "L'inconnu et les peurs refoulées", Triggers: []string{"sombre", "obscur", "noir", "ténèbre"}},
	{Key: "dents", Meaning: "L'image sociale et la peur de vieillir"},
	{Key: "nudité", Meaning: "La vulnérabilité et la peur du jugement", Triggers: []string{"déshabill"}},
	{Key: "examen", Meaning: "L'évaluation de soi et la peur de l'échec", Triggers: []string{"épreuve"}},
	{Key: "poursuite", Meaning: "L'évitement d'un problème ou d'une émotion", Triggers: []string{"poursuiv", "pourchass"}},
	{Key: "argent", Meaning: "L'estime de soi et la valeur personnelle", Triggers: []string{"billet", "trésor"}},
	{Key: "école", Meaning: "L'apprentissage et les leçons de vie", Triggers: []string{"classe"}},
	{Key: "animal", Meaning: "Les instincts et la nature profonde", Triggers: []string{"animaux", "chien", "chat"}},
	{Key: "pont", Meaning: "Le passage d'une étape de vie à une autre"},
	{Key: "labyrinthe", Meaning: "La recherche de sens et l'indécision", Triggers: []string{"dédale"}},
}

var defaultEmotions = []Emotion{
	{Name: "joie", Triggers: []string{"joie", "heureu", "content", "rire", "riais", "bonheur", "joyeu"}},
	{Name: "peur", Triggers: []string{"peur", "effray", "terrifi", "terreur", "panique", "cauchemar"}},
	{Name: "tristesse", Triggers: []string{"triste", "pleur", "chagrin", "larme", "mélancoli"}},
	{Name: "colère", Triggers: []string{"colère", "furieu", "énerv", "rage", "fâch"}},
	{Name: "sérénité", Triggers: []string{"serein", "sérénité", "calme", "paisible", "tranquille", "apais"}},
	{Name: "surprise", Triggers: []string{"surpri", "étonn", "inattendu", "soudain"}},
	{Name: "anxiété", Triggers: []string{"anxi", "angoiss", "stress", "inquiet", "nerveu"}},
	{Name: "confusion", Triggers: []string{"confus", "perdu", "bizarre", "incompréhensible"}},
	{Name: "amour", Triggers: []string{"amour", "amoureu", "aimais", "aimer", "tendresse", "baiser"}},
	{Name: "nostalgie", Triggers: []string{"nostalgi", "souvenir", "autrefois", "jadis"}},
}
