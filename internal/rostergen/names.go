package rostergen

// Name pools for synthetic rosters. Spellings intentionally include "ё" so
// generated files exercise normalization downstream.

var maleSurnames = []string{
	"Иванов", "Петров", "Сидоров", "Кузнецов", "Смирнов",
	"Попов", "Васильев", "Новиков", "Фёдоров", "Морозов",
	"Волков", "Алексеев", "Лебедев", "Семёнов", "Егоров",
}

var femaleSurnames = []string{
	"Иванова", "Петрова", "Сидорова", "Кузнецова", "Смирнова",
	"Попова", "Васильева", "Новикова", "Фёдорова", "Морозова",
}

var maleGivenNames = []string{
	"Иван", "Пётр", "Сергей", "Андрей", "Олег",
	"Дмитрий", "Алексей", "Николай", "Павел", "Артём",
}

var femaleGivenNames = []string{
	"Анна", "Ольга", "Мария", "Елена", "Татьяна",
	"Наталья", "Ирина", "Светлана", "Екатерина", "Юлия",
}

var patronymics = []string{
	"Иванович", "Петрович", "Сергеевич", "Андреевич", "Олегович",
	"Николаевич", "Павлович", "Дмитриевич",
}

var maleWeights = []string{"54", "58", "63", "68", "74", "81", "90", "+90"}

var femaleWeights = []string{"47", "51", "55", "59", "65", "72", "+72"}
