package i18n

// FrMessages French message catalog
var FrMessages = map[string]string{
	"view.tracker": "Suivi",
	"view.gallery": "Galerie",

	"stats.total_time":     "Temps total",
	"stats.sets_completed": "Sets terminés",
	"stats.avg_bag":        "Moyenne par sachet",
	"stats.ppm":            "Pièces / min",
	"stats.pieces":         "Pièces montées",

	"status.PLANNING":    "Planifié",
	"status.IN_PROGRESS": "En cours",
	"status.COMPLETED":   "Terminé",

	"queue.title": "File de construction",
	"queue.empty": "Aucun set. Appuyez sur n pour en ajouter un.",

	"detail.select":      "Sélectionnez un projet pour commencer",
	"detail.set_number":  "Set n°%s",
	"detail.pieces":      "Pièces",
	"detail.bags":        "Sachets",
	"detail.current_bag": "Sachet actuel",
	"detail.speed":       "Vitesse",
	"detail.speed_value": "%.1f ppm",
	"detail.status":      "Statut",
	"detail.time_log":    "Temps passé",
	"detail.theme":       "Thème",
	"detail.image":       "Image",

	"timer.title":    "Session active",
	"timer.bag":      "Sachet en cours",
	"timer.of":       "sur %d",
	"timer.finish":   "Terminer le sachet",
	"timer.running":  "En marche",
	"timer.paused":   "En pause",
	"timer.idle":     "Prêt",
	"timer.logged":   "Sachet %d enregistré en %s",
	"timer.rejected": "Rien à enregistrer, lancez d'abord le chrono.",

	"chart.title":     "Rythme (minutes par sachet)",
	"chart.empty":     "Enregistrez un sachet pour voir le graphique.",
	"chart.bar_label": "Sachet %d",
	"history.title":   "Historique des sachets",
	"history.entries": "%d entrées",
	"history.empty":   "Aucune session.",

	"gallery.title":   "Ma collection",
	"gallery.summary": "%d sets terminés · %d pièces",
	"gallery.empty":   "Votre archive est vide.",
	"gallery.bags":    "%d/%d sachets",

	"modal.title":              "Nouveau set",
	"modal.name":               "Nom",
	"modal.set_number":         "Numéro du set",
	"modal.pieces":             "Nombre de pièces",
	"modal.bags":               "Nombre de sachets",
	"modal.theme":              "Thème",
	"modal.image_url":          "URL de l'image",
	"modal.photo":              "Chemin de la photo",
	"modal.search":             "Rechercher",
	"modal.search_placeholder": "Nom ou numéro du set",
	"modal.sources":            "Sources",
	"modal.create":             "Lancer la construction",
	"modal.scanning":           "Analyse de la boîte...",
	"modal.searching":          "Recherche...",
	"modal.scan_failed":        "Impossible d'identifier le set.",
	"modal.search_failed":      "Aucun résultat.",
	"modal.read_failed":        "Impossible de lire l'image : %s",
	"modal.hint":               "tab champ suivant · ctrl+s rechercher · ctrl+o scanner · entrée créer · échap annuler",

	"insight.title":    "Conseils du maître bâtisseur",
	"insight.loading":  "Analyse de vos constructions...",
	"insight.fallback": "Erreur d'analyse.",
	"insight.error":    "Erreur lors de l'analyse des statistiques.",
	"insight.prompt": "Tu es un maître constructeur de briques et un coach. Voici les données de construction " +
		"de mes sets en JSON (name, pieces, bags, totalTimeSeconds, bagAverage) : %s\n" +
		"Analyse mes performances : compare ma vitesse entre les sets, indique mes constructions les plus " +
		"rapides et les plus lentes, et donne deux ou trois conseils courts et encourageants. Réponds en " +
		"français, en Markdown, en moins de 200 mots.",

	"delete.confirm": "Supprimer « %s » ? (o/n)",
	"delete.done":    "%s supprimé",

	"lang.switched": "Langue : %s",

	"keys.nav":     "↑/↓ choisir",
	"keys.start":   "espace démarrer/pause",
	"keys.finish":  "entrée terminer le sachet",
	"keys.reset":   "r remise à zéro",
	"keys.bag":     "+/- sachet",
	"keys.new":     "n nouveau",
	"keys.delete":  "d supprimer",
	"keys.insight": "i conseils",
	"keys.view":    "v vue",
	"keys.lang":    "l langue",
	"keys.quit":    "q quitter",

	"shell.welcome":    "Shell BrickTrack. Tapez help pour l'aide.",
	"shell.unknown":    "Commande inconnue : %s",
	"shell.usage":      "Usage : %s",
	"shell.no_active":  "Aucun set sélectionné.",
	"shell.not_found":  "Aucun set ne correspond à %q.",
	"shell.selected":   "%s sélectionné",
	"shell.created":    "%s créé",
	"shell.bag_set":    "Sachet de travail : %d",
	"shell.started":    "Chrono lancé.",
	"shell.paused":     "Chrono en pause à %s.",
	"shell.reset":      "Chrono remis à zéro.",
	"shell.view":       "Vue : %s",
	"shell.bye":        "Au revoir.",
	"shell.found":      "Trouvé : %s",
	"shell.draft":      "Brouillon : %s · n°%s · %s pièces · %s sachets · %s",
	"shell.draft_hint": "Tapez new pour le créer, ou new <nom> pour changer le nom.",

	"cmd.help":    "Afficher les commandes",
	"cmd.list":    "Lister les sets, du plus récent au plus ancien",
	"cmd.select":  "Sélectionner un set par numéro de liste ou id",
	"cmd.new":     "Créer un set depuis le brouillon : new [nom] [#set] [pièces] [sachets]",
	"cmd.delete":  "Supprimer le set sélectionné",
	"cmd.bag":     "Changer le numéro de sachet",
	"cmd.start":   "Démarrer le chrono",
	"cmd.pause":   "Mettre le chrono en pause",
	"cmd.reset":   "Remettre le chrono à zéro",
	"cmd.done":    "Terminer le sachet en cours",
	"cmd.stats":   "Statistiques de la collection et du set choisi",
	"cmd.insight": "Demander une analyse à l'IA",
	"cmd.search":  "Rechercher un set par nom ou numéro",
	"cmd.scan":    "Identifier un set depuis une photo de la boîte",
	"cmd.lang":    "Changer de langue (en/fr)",
	"cmd.view":    "Basculer entre suivi et galerie",
	"cmd.quit":    "Quitter",

	"error.save":   "Échec de la sauvegarde : %v",
	"error.config": "Erreur de configuration : %v",
}
