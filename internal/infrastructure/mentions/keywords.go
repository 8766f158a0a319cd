package mentions

// Deadline keyword phrases, matched case-insensitively near a date.
// Curated from tender/procurement and HR circular phrasing.
var englishDeadlineKeywords = []string{
	"deadline", "due", "by", "before", "expires", "submission", "submit by",
	"due date", "last date", "cut-off date", "closing date", "final date",
	"end date", "last date for submission", "due for submission",
	"to be submitted by", "bid submission end date", "tender submission date",
	"online submission deadline", "closing time for submission",
	"application deadline", "application closing date",
	"last date for applying", "proposal due date",
	"proposal submission deadline", "rfp submission date",
	"eoi submission date", "tender closing date", "bid closing date",
	"last date of receipt of bids", "last date of receipt of tenders",
	"shall not be accepted after", "no application will be entertained after",
	"valid till", "to reach by", "on or before", "time limit for submission",
	"period ends on", "bid end date/time",
}

// Localized equivalents used in multilingual mode, alongside the English
// list (bilingual circulars mix both within one sentence).
var malayalamDeadlineKeywords = []string{
	"അവസാന തീയതി",                 // last date
	"സമർപ്പിക്കേണ്ട അവസാന തീയതി", // last date for submission
	"അപേക്ഷ സമർപ്പിക്കേണ്ട തീയതി", // application submission date
	"അപേക്ഷാ അവസാന തീയതി",        // application deadline
	"ടെൻഡർ അവസാന തീയതി",          // tender closing date
	"സമയപരിധി",                   // time limit
	"കാലാവധി",                    // validity period
	"മുൻപായി",                    // before
	"മുമ്പ്",                     // before
	"അവസാനിക്കുന്നു",             // ends
	"വരെ സാധുവാണ്",               // valid till
}

var englishMonthTokens = []string{
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept",
	"oct", "nov", "dec",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
	"sunday",
}

var malayalamMonthTokens = []string{
	"ജനുവരി", "ഫെബ്രുവരി", "മാർച്ച്", "ഏപ്രിൽ", "മേയ്", "ജൂൺ", "ജൂലൈ",
	"ഓഗസ്റ്റ്", "സെപ്റ്റംബർ", "ഒക്ടോബർ", "നവംബർ", "ഡിസംബർ",
	"തിങ്കൾ", "ചൊവ്വ", "ബുധൻ", "വ്യാഴം", "വെള്ളി", "ശനി", "ഞായർ",
}
