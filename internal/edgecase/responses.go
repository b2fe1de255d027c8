package edgecase

// responses holds the canned reply per category and language. Content is
// part of the product voice (the Alex persona) and is not configurable.
var responses = map[string]map[string]Response{
	CategoryAggressive: {
		"es": {
			Dialogue: "Entiendo que puedas estar frustrado, pero en una entrevista real mantener la compostura es fundamental. Respiremos y continuemos con profesionalismo. ¿Listo para la siguiente pregunta?",
			Feedback: &Feedback{
				Score:      20,
				Analysis:   "Lenguaje inapropiado detectado. En un entorno laboral real, esto resultaría en descalificación inmediata.",
				Good:       "Expresar emociones es humano",
				Bad:        "El lenguaje agresivo nunca es aceptable en un contexto profesional",
				Suggestion: "Practica técnicas de manejo del estrés: respira 3 veces antes de responder.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "frustrated",
		},
		"en": {
			Dialogue: "I understand you might be frustrated, but in a real interview, maintaining composure is critical. Let's take a breath and continue professionally. Ready for the next question?",
			Feedback: &Feedback{
				Score:      20,
				Analysis:   "Inappropriate language detected. In a real work environment, this would result in immediate disqualification.",
				Good:       "Expressing emotions is human",
				Bad:        "Aggressive language is never acceptable in a professional context",
				Suggestion: "Practice stress management: take 3 deep breaths before responding.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "frustrated",
		},
	},

	CategoryOffTopic: {
		"es": {
			Dialogue: "Interesante, pero volvamos a lo que importa: tu carrera. En una entrevista real tenés tiempo limitado. Vamos con la siguiente pregunta.",
			Feedback: &Feedback{
				Score:      30,
				Analysis:   "El candidato se desvió del tema. Esto indica nerviosismo o falta de preparación.",
				Good:       "Mostrar personalidad es positivo",
				Bad:        "Perder el foco en una entrevista cuesta puntos",
				Suggestion: "Si te ponen nervioso, es mejor pedir un momento que desviarse del tema.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "nervous",
		},
		"en": {
			Dialogue: "Interesting, but let's get back to what matters: your career. In a real interview you have limited time. Let's move to the next question.",
			Feedback: &Feedback{
				Score:      30,
				Analysis:   "Candidate went off-topic. This may indicate nervousness or lack of preparation.",
				Good:       "Showing personality is positive",
				Bad:        "Losing focus in an interview costs points",
				Suggestion: "If you're nervous, it's better to ask for a moment than to go off-topic.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "nervous",
		},
	},

	CategoryTooShort: {
		"es": {
			Dialogue: "Necesito más que eso. En una entrevista, respuestas muy cortas hacen pensar que no tenés interés. Intentá usar el método STAR: Situación, Tarea, Acción, Resultado.",
			Feedback: &Feedback{
				Score:      15,
				Analysis:   "Respuesta demasiado corta para evaluar. Posible nerviosismo o falta de preparación.",
				Good:       "La brevedad puede ser buena en algunos contextos",
				Bad:        "Una respuesta de una sola palabra no demuestra competencias",
				Suggestion: "Practica el método STAR: describe una Situación, la Tarea, tu Acción y el Resultado.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "nervous",
		},
		"en": {
			Dialogue: "I need more than that. In an interview, very short answers make it seem like you're not interested. Try using the STAR method: Situation, Task, Action, Result.",
			Feedback: &Feedback{
				Score:      15,
				Analysis:   "Response too short to evaluate. Possible nervousness or lack of preparation.",
				Good:       "Brevity can be good in some contexts",
				Bad:        "A one-word answer doesn't demonstrate competencies",
				Suggestion: "Practice the STAR method: describe a Situation, the Task, your Action, and the Result.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "nervous",
		},
	},

	CategoryIDontKnow: {
		"es": {
			Dialogue: "Está bien no saber algo. En una entrevista real, es mejor decir \"No tengo experiencia directa en eso, pero lo que haría es...\" ¿Querés intentar reformular tu respuesta?",
			Feedback: &Feedback{
				Score:      25,
				Analysis:   "El candidato admitió no saber, pero sin ofrecer alternativa.",
				Good:       "La honestidad es valorada",
				Bad:        "Un \"no sé\" sin alternativa cierra la conversación",
				Suggestion: "Reformula: \"No tengo experiencia directa, pero basándome en X, haría Y.\"",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "confused",
		},
		"en": {
			Dialogue: "It's okay not to know something. In a real interview, it's better to say \"I don't have direct experience with that, but what I would do is...\" Would you like to try rephrasing?",
			Feedback: &Feedback{
				Score:      25,
				Analysis:   "Candidate admitted not knowing but without offering an alternative.",
				Good:       "Honesty is valued",
				Bad:        "A bare \"I don't know\" closes the conversation",
				Suggestion: "Rephrase: \"I don't have direct experience, but based on X, I would do Y.\"",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "confused",
		},
	},

	CategoryTooLong: {
		"es": {
			Dialogue: "Buena información, pero en una entrevista real tenés máximo 2 minutos por respuesta. ¿Podés resumirme los 3 puntos clave de lo que acabás de decir?",
			Feedback: &Feedback{
				Score:      55,
				Analysis:   "Respuesta demasiado extensa. El candidato tiene conocimiento pero necesita practicar síntesis.",
				Good:       "Demuestra profundidad de conocimiento",
				Bad:        "Respuestas de 5+ minutos pierden la atención del reclutador",
				Suggestion: "Regla de oro: prepara respuestas de 90 segundos máximo. Usa bullets mentales.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "confident",
		},
		"en": {
			Dialogue: "Good information, but in a real interview you have max 2 minutes per answer. Can you summarize the 3 key points of what you just said?",
			Feedback: &Feedback{
				Score:      55,
				Analysis:   "Response too long. Candidate has knowledge but needs to practice synthesis.",
				Good:       "Demonstrates depth of knowledge",
				Bad:        "5+ minute answers lose the recruiter's attention",
				Suggestion: "Golden rule: prepare answers of 90 seconds max. Use mental bullet points.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "confident",
		},
	},

	CategoryAskingForAnswers: {
		"es": {
			Dialogue: "Mi trabajo es prepararte, no darte las respuestas. En la entrevista real no vas a tener un coach al lado. Te doy una pista: enfocate en tus logros concretos con números.",
			Feedback: &Feedback{
				Score:      10,
				Analysis:   "El candidato pidió la respuesta en vez de intentar. Esto indica falta de confianza.",
				Good:       "Pedir ayuda demuestra humildad",
				Bad:        "En una entrevista real no hay ayuda externa",
				Suggestion: "Antes de la entrevista, prepara 5 historias STAR de tus logros principales. Eso te dará confianza.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "nervous",
		},
		"en": {
			Dialogue: "My job is to prepare you, not give you answers. In the real interview you won't have a coach beside you. Here's a hint: focus on your concrete achievements with numbers.",
			Feedback: &Feedback{
				Score:      10,
				Analysis:   "Candidate asked for the answer instead of trying. This indicates lack of confidence.",
				Good:       "Asking for help shows humility",
				Bad:        "In a real interview there's no external help",
				Suggestion: "Before the interview, prepare 5 STAR stories of your main achievements. That will give you confidence.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "nervous",
		},
	},

	CategoryInappropriate: {
		"es": {
			Dialogue: "Ese contenido no es apropiado en un contexto laboral. En una entrevista real, esto sería motivo de terminación inmediata. Continuemos con profesionalismo.",
			Feedback: &Feedback{
				Score:      0,
				Analysis:   "Contenido inapropiado. Descalificación en entorno real.",
				Good:       "N/A",
				Bad:        "Contenido inapropiado para contexto laboral",
				Suggestion: "Un contexto profesional requiere lenguaje profesional. Siempre.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "neutral",
		},
		"en": {
			Dialogue: "That content is not appropriate in a professional context. In a real interview, this would be grounds for immediate termination. Let's continue professionally.",
			Feedback: &Feedback{
				Score:      0,
				Analysis:   "Inappropriate content. Disqualification in real setting.",
				Good:       "N/A",
				Bad:        "Inappropriate content for work context",
				Suggestion: "A professional context requires professional language. Always.",
			},
			Stage:           "EDGE_CASE",
			EmotionDetected: "neutral",
		},
	},

	CategoryWantsToEnd: {
		"es": {
			Dialogue:        "¡Perfecto! Ha sido una buena sesión de práctica. Te voy a dar un resumen de tu desempeño.",
			Stage:           "CLOSING",
			EmotionDetected: "neutral",
			Action:          ActionGenerateFinalReport,
		},
		"en": {
			Dialogue:        "Perfect! It's been a good practice session. I'm going to give you a summary of your performance.",
			Stage:           "CLOSING",
			EmotionDetected: "neutral",
			Action:          ActionGenerateFinalReport,
		},
	},

	CategoryEmergency: {
		"es": {
			Dialogue:        "Lo que me estás diciendo es importante y quiero que sepas que hay personas capacitadas para ayudarte. Por favor contacta a una línea de ayuda: en Argentina 135, en México 800-290-0024, en España 024. Tu bienestar es lo primero.",
			Stage:           "EMERGENCY",
			EmotionDetected: "distressed",
			Action:          ActionStopSession,
		},
		"en": {
			Dialogue:        "What you're telling me is important and I want you to know there are trained people who can help. Please contact a helpline: in US 988, in UK 116 123. Your wellbeing comes first.",
			Stage:           "EMERGENCY",
			EmotionDetected: "distressed",
			Action:          ActionStopSession,
		},
	},
}

// response returns a copy of the canned reply so callers can annotate it
// without mutating the table.
func response(category, lang string) *Response {
	r := responses[category][lang]
	r.Category = category
	if r.Feedback != nil {
		fb := *r.Feedback
		r.Feedback = &fb
	}
	return &r
}

// TooLongFeedback returns the synthesis-coaching block overlaid on a normal
// provider answer when the input exceeded the word budget.
func TooLongFeedback(lang string) *Response {
	return response(CategoryTooLong, normalizeLang(lang))
}
