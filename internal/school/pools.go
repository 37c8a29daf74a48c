package school

var (
	courseTitles = []string{"Introduction to %s", "History of %s", "%s and Computation", "%s and Society", "%s: A Retrospective"}
	courseTopics = []string{"Databases", "Tire Recycling", "Line Dancing", "Excel", "Pointillism", "Sexism"}

	coursePrefixes = []string{"CS%s", "EV%s", "EN%s", "AR%s", "AC%s", "CO%s", "CM%s", "MA%s"}
	courseNumbers  = []string{"101", "201", "300", "235", "123", "221", "245", "320", "119", "265"}

	lastNames  = []string{"Weddell", "Ilyas", "Baranov", "Ng", "Price", "Raval", "Smith", "Jones", "Gomez", "Gross"}
	firstNames = []string{"Grant", "Bob", "Joe", "Fred", "Melvin", "Roger", "Peter", "KillBot"}

	officeBuildings = []string{"MC%d", "DC%d", "RCH%d", "DWE%d"}
	officeNumbers   = []int{1023, 780, 345, 932, 221, 1411, 442, 121}
	departments     = []string{"Computer Science", "Environment", "Philosophy", "Arts", "Pure Math"}

	terms = []string{"F%d", "W%d", "S%d"}

	weekdays      = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	roomBuildings = []string{"MC%s", "DWE%s", "RCH%s", "DC%s", "PAS%s"}
	roomNumbers   = []string{"100", "115", "120", "200", "203", "230", "300", "340", "400", "438", "459", "652"}
)
