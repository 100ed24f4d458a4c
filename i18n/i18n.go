// Package i18n provides the fr/en message catalog used for every
// user-visible string. French is the product's primary locale.
package i18n

import "strings"

var translations = map[string]map[string]string{
	"fr": {
		"required":                "Requis",
		"too_short":               "Trop court",
		"invalid_email":           "Adresse email invalide",
		"invalid_value":           "Valeur invalide",
		"must_be_positive":        "Doit être positif",
		"unauthorized":            "Authentification requise",
		"account_disabled":        "Compte désactivé",
		"no_agency":               "Aucune agence associée à ce compte",
		"forbidden":               "Accès refusé",
		"not_found":               "Ressource introuvable",
		"invalid_payload":         "Requête invalide",
		"internal_error":          "Une erreur est survenue",
		"method_not_allowed":      "Méthode non autorisée",
		"invalid_credentials":     "Email ou mot de passe incorrect",
		"email_already_used":      "Un compte existe déjà avec cet email",
		"invitation_pending":      "Une invitation est déjà en attente pour cet email",
		"invitation_not_found":    "Invitation introuvable",
		"invitation_not_pending":  "Cette invitation n'est plus valide",
		"invitation_expired":      "Cette invitation a expiré",
		"invalid_role":            "Rôle invalide",
		"talent_required":         "Un talent doit être associé à ce rôle",
		"cannot_remove_self":      "Vous ne pouvez pas vous retirer vous-même",
		"invalid_status":          "Statut invalide",
		"password_too_short":      "Le mot de passe doit contenir au moins 8 caractères",
		"name_too_short":          "Le nom doit contenir au moins 2 caractères",
		"agency_name_required":    "Le nom de l'agence est requis",
		"event_type_invalid":      "Type d'événement invalide",
		"event_dates_invalid":     "Dates d'événement invalides",
	},
	"en": {
		"required":                "Required",
		"too_short":               "Too short",
		"invalid_email":           "Invalid email address",
		"invalid_value":           "Invalid value",
		"must_be_positive":        "Must be positive",
		"unauthorized":            "Authentication required",
		"account_disabled":        "Account disabled",
		"no_agency":               "No agency linked to this account",
		"forbidden":               "Access denied",
		"not_found":               "Resource not found",
		"invalid_payload":         "Invalid request",
		"internal_error":          "Something went wrong",
		"method_not_allowed":      "Method not allowed",
		"invalid_credentials":     "Invalid email or password",
		"email_already_used":      "An account already exists for this email",
		"invitation_pending":      "An invitation is already pending for this email",
		"invitation_not_found":    "Invitation not found",
		"invitation_not_pending":  "This invitation is no longer valid",
		"invitation_expired":      "This invitation has expired",
		"invalid_role":            "Invalid role",
		"talent_required":         "A talent must be attached to this role",
		"cannot_remove_self":      "You cannot remove yourself",
		"invalid_status":          "Invalid status",
		"password_too_short":      "Password must be at least 8 characters",
		"name_too_short":          "Name must be at least 2 characters",
		"agency_name_required":    "Agency name is required",
		"event_type_invalid":      "Invalid event type",
		"event_dates_invalid":     "Invalid event dates",
	},
}

// T translates a message code for the given language.
// Unknown languages fall back to French; unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations["fr"][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(acceptLang string) string {
	s := strings.ToLower(strings.TrimSpace(acceptLang))
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if i := strings.Index(part, ";"); i >= 0 {
			part = part[:i]
		}
		if strings.HasPrefix(part, "en") {
			return "en"
		}
		if strings.HasPrefix(part, "fr") {
			return "fr"
		}
	}
	return "fr"
}
