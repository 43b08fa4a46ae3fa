package i18n

var catalog = map[string]map[string]string{
	LocaleEnglish: {
		"seat.selectSeatsAndTypes":   "Please select seats and ticket types",
		"seat.selectTicketType":      "Select ticket type for seat {0}",
		"seat.invalidBookingData":    "Invalid booking data",
		"seat.alreadyBooked":         "Some of the selected seats are already booked",
		"seat.bookingError":          "Booking failed, please try again",
		"seat.bookingSuccess":        "Booking confirmed",
		"seat.outOfRange":            "Seat does not exist",
		"seat.invalidTicketType":     "Unknown ticket type",
		"seat.noPendingSelection":    "Tap a seat before choosing its ticket type",
		"seat.selectionClosed":       "This selection is already booked",
		"seat.submissionInProgress":  "Booking is already in progress",
		"seat.selectionNotFound":     "Seat selection not found",
		"seat.selectionOpened":       "Seat selection opened",
		"seat.selectionUpdated":      "Seat selection updated",
		"seat.selectionClosedByUser": "Seat selection closed",
		"ticket.adult":               "Adult",
		"ticket.child":               "Child",
		"ticket.student":             "Student",
		"ticket.listed":              "Tickets retrieved",
		"auth.loginRequired":         "Please log in to book tickets",
		"auth.notAuthorized":         "You are not authorized to perform this action",
		"common.invalidRequest":      "Invalid request",
		"common.serverError":         "Something went wrong",
		"common.upstreamError":       "Service is temporarily unavailable",
		"recommend.noFace":           "No face detected in the photo",
		"recommend.ready":            "Recommendations ready",
	},
	LocaleRussian: {
		"seat.selectSeatsAndTypes":   "Выберите места и типы билетов",
		"seat.selectTicketType":      "Выберите тип билета для места {0}",
		"seat.invalidBookingData":    "Неверные данные бронирования",
		"seat.alreadyBooked":         "Некоторые выбранные места уже забронированы",
		"seat.bookingError":          "Не удалось забронировать, попробуйте ещё раз",
		"seat.bookingSuccess":        "Бронирование подтверждено",
		"seat.outOfRange":            "Такого места нет",
		"seat.invalidTicketType":     "Неизвестный тип билета",
		"seat.noPendingSelection":    "Сначала выберите место",
		"seat.selectionClosed":       "Этот выбор уже забронирован",
		"seat.submissionInProgress":  "Бронирование уже выполняется",
		"seat.selectionNotFound":     "Выбор мест не найден",
		"seat.selectionOpened":       "Выбор мест открыт",
		"seat.selectionUpdated":      "Выбор мест обновлён",
		"seat.selectionClosedByUser": "Выбор мест закрыт",
		"ticket.adult":               "Взрослый",
		"ticket.child":               "Детский",
		"ticket.student":             "Студенческий",
		"ticket.listed":              "Билеты получены",
		"auth.loginRequired":         "Войдите, чтобы забронировать билеты",
		"auth.notAuthorized":         "У вас нет прав для этого действия",
		"common.invalidRequest":      "Неверный запрос",
		"common.serverError":         "Что-то пошло не так",
		"common.upstreamError":       "Сервис временно недоступен",
		"recommend.noFace":           "На фото не найдено лицо",
		"recommend.ready":            "Рекомендации готовы",
	},
	LocaleKazakh: {
		"seat.selectSeatsAndTypes":   "Орындар мен билет түрлерін таңдаңыз",
		"seat.selectTicketType":      "{0} орынға билет түрін таңдаңыз",
		"seat.invalidBookingData":    "Брондау деректері қате",
		"seat.alreadyBooked":         "Таңдалған орындардың кейбірі бос емес",
		"seat.bookingError":          "Брондау сәтсіз аяқталды, қайталап көріңіз",
		"seat.bookingSuccess":        "Брондау расталды",
		"seat.outOfRange":            "Мұндай орын жоқ",
		"seat.invalidTicketType":     "Белгісіз билет түрі",
		"seat.noPendingSelection":    "Алдымен орынды таңдаңыз",
		"seat.selectionClosed":       "Бұл таңдау брондалып қойған",
		"seat.submissionInProgress":  "Брондау орындалып жатыр",
		"seat.selectionNotFound":     "Орын таңдауы табылмады",
		"seat.selectionOpened":       "Орын таңдауы ашылды",
		"seat.selectionUpdated":      "Орын таңдауы жаңартылды",
		"seat.selectionClosedByUser": "Орын таңдауы жабылды",
		"ticket.adult":               "Ересек",
		"ticket.child":               "Балалар",
		"ticket.student":             "Студенттік",
		"ticket.listed":              "Билеттер алынды",
		"auth.loginRequired":         "Билет брондау үшін жүйеге кіріңіз",
		"auth.notAuthorized":         "Бұл әрекетке рұқсатыңыз жоқ",
		"common.invalidRequest":      "Сұраныс қате",
		"common.serverError":         "Бірдеңе дұрыс болмады",
		"common.upstreamError":       "Қызмет уақытша қолжетімсіз",
		"recommend.noFace":           "Суретте бет табылмады",
		"recommend.ready":            "Ұсыныстар дайын",
	},
}
