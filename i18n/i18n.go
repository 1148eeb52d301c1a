// Package i18n holds the user-facing message catalogue.
package i18n

import (
	"context"
	"strings"
)

const (
	LangEN = "en"
	LangFR = "fr"

	DefaultLang = LangEN
)

type ctxKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the request language or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(ctxKey{}).(string); ok && Supported(l) {
		return l
	}
	return DefaultLang
}

// Supported reports whether a catalogue exists for lang.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// DetectLanguage picks the first supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if tag == "" {
			continue
		}
		base := strings.SplitN(tag, "-", 2)[0]
		if Supported(base) {
			return base
		}
	}
	return DefaultLang
}

// T translates code into lang, falling back to English and then to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

var catalog = map[string]map[string]string{
	LangEN: {
		"required":       "Required",
		"invalid_email":  "Invalid email address",
		"invalid_choice": "Invalid choice",

		"auth.credentials_required": "Email and password are required.",
		"auth.invalid_credentials":  "Invalid email or password.",
		"auth.verify_required":      "Please verify your email to continue.",
		"auth.signed_in":            "Signed in successfully.",
		"auth.signup_required":      "Name, email, and password are required.",
		"auth.email_invalid":        "Please enter a valid email address.",
		"auth.email_taken":          "Email is already registered.",
		"auth.signed_out":           "You have been signed out.",
		"auth.login_required":       "Please sign in to continue.",

		"verify.code_sent":        "We have sent a 6-digit verification code to your email.",
		"verify.send_failed":      "Could not send verification email. Please contact support.",
		"verify.invalid_request":  "Invalid request.",
		"verify.user_not_found":   "User not found.",
		"verify.incorrect":        "Incorrect code.",
		"verify.expired":          "Code expired. Please request a new one.",
		"verify.success":          "Email verified successfully.",
		"verify.resent":           "A new code has been sent to your email.",
		"verify.resend_failed":    "Could not send email. Please check configuration.",
		"verify.already_verified": "Your email is already verified. Please sign in.",

		"jobs.fields_required": "All fields are required.",
		"jobs.posted":          "Job posted successfully.",
		"jobs.companies_only":  "Only company accounts can post jobs.",
		"payment.recorded":     "Payment recorded. Application added to your profile.",

		"rate.limited":  "Too many attempts. Please wait a minute and try again.",
		"error.generic": "Something went wrong. Please try again.",

		"nav.jobs":    "Jobs",
		"nav.login":   "Sign in",
		"nav.signup":  "Sign up",
		"nav.logout":  "Sign out",
		"nav.profile": "Profile",
		"nav.company": "Dashboard",
	},
	LangFR: {
		"required":       "Requis",
		"invalid_email":  "Adresse e-mail invalide",
		"invalid_choice": "Choix invalide",

		"auth.credentials_required": "L'e-mail et le mot de passe sont requis.",
		"auth.invalid_credentials":  "E-mail ou mot de passe invalide.",
		"auth.verify_required":      "Veuillez vérifier votre e-mail pour continuer.",
		"auth.signed_in":            "Connexion réussie.",
		"auth.signup_required":      "Le nom, l'e-mail et le mot de passe sont requis.",
		"auth.email_invalid":        "Veuillez saisir une adresse e-mail valide.",
		"auth.email_taken":          "Cet e-mail est déjà enregistré.",
		"auth.signed_out":           "Vous avez été déconnecté.",
		"auth.login_required":       "Veuillez vous connecter pour continuer.",

		"verify.code_sent":        "Nous avons envoyé un code de vérification à 6 chiffres à votre e-mail.",
		"verify.send_failed":      "Impossible d'envoyer l'e-mail de vérification. Veuillez contacter le support.",
		"verify.invalid_request":  "Requête invalide.",
		"verify.user_not_found":   "Utilisateur introuvable.",
		"verify.incorrect":        "Code incorrect.",
		"verify.expired":          "Code expiré. Veuillez en demander un nouveau.",
		"verify.success":          "E-mail vérifié avec succès.",
		"verify.resent":           "Un nouveau code a été envoyé à votre e-mail.",
		"verify.resend_failed":    "Impossible d'envoyer l'e-mail. Veuillez vérifier la configuration.",
		"verify.already_verified": "Votre e-mail est déjà vérifié. Veuillez vous connecter.",

		"jobs.fields_required": "Tous les champs sont requis.",
		"jobs.posted":          "Offre publiée avec succès.",
		"jobs.companies_only":  "Seuls les comptes entreprise peuvent publier des offres.",
		"payment.recorded":     "Paiement enregistré. Candidature ajoutée à votre profil.",

		"rate.limited":  "Trop de tentatives. Veuillez patienter une minute.",
		"error.generic": "Une erreur est survenue. Veuillez réessayer.",

		"nav.jobs":    "Offres",
		"nav.login":   "Connexion",
		"nav.signup":  "Inscription",
		"nav.logout":  "Déconnexion",
		"nav.profile": "Profil",
		"nav.company": "Tableau de bord",
	},
}
