package application

// Report payloads are serialised verbatim by the HTTP layer, so they carry
// the camelCase field names the dashboard reads.

type GlynacScoreReport struct {
	OverallScore       int    `json:"overallScore"`
	CommunicationScore int    `json:"communicationScore"`
	WorkloadScore      int    `json:"workloadScore"`
	WellbeingScore     int    `json:"wellbeingScore"`
	Trend              int    `json:"trend"`
	Date               string `json:"date"`
}

type RiskAlertItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Type         AlertType `json:"type"`
	Severity     Severity  `json:"severity"`
	Time         string    `json:"time"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
}

type SentimentPoint struct {
	Month    string `json:"month"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

type SentimentAnalysisReport struct {
	Data               []SentimentPoint `json:"data"`
	PositivePercentage int              `json:"positivePercentage"`
	NeutralPercentage  int              `json:"neutralPercentage"`
	NegativePercentage int              `json:"negativePercentage"`
	TotalMessages      int              `json:"totalMessages"`
	WindowDays         int              `json:"windowDays"`
}

type DepartmentWorkload struct {
	Department   string  `json:"department"`
	MeetingHours float64 `json:"meetingHours"`
	AfterHours   int     `json:"afterHours"`
	Members      int     `json:"members"`
}

type WorkloadReport struct {
	Data                 []DepartmentWorkload `json:"data"`
	AvgMeetingHours      float64              `json:"avgMeetingHours"`
	AfterHoursPercentage int                  `json:"afterHoursPercentage"`
	AvgFocusBlocks       int                  `json:"avgFocusBlocks"`
}

type FileActivityItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Creator      string `json:"creator"`
	LastModified string `json:"lastModified"`
	Views        int    `json:"views"`
}

type EmployeeInsight struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	Sentiment string   `json:"sentiment"`
	Workload  string   `json:"workload"`
	RiskLevel Severity `json:"riskLevel"`
}

type EmployeeAlertSummary struct {
	ID       string    `json:"id"`
	Type     AlertType `json:"type"`
	Title    string    `json:"title"`
	Severity Severity  `json:"severity"`
}

type EmployeeFileSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Action string `json:"action"`
	Date   string `json:"date"`
}

type MonthlySentiment struct {
	Month    string `json:"month"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
}

type EmployeeDetail struct {
	ID                   string                 `json:"id"`
	Name                 string                 `json:"name"`
	Department           string                 `json:"department"`
	MeetingHours         int                    `json:"meetingHours"`
	AfterHoursPercentage int                    `json:"afterHoursPercentage"`
	FocusBlocks          int                    `json:"focusBlocks"`
	CalendarSummary      string                 `json:"calendarSummary"`
	RecentAlerts         []EmployeeAlertSummary `json:"recentAlerts"`
	RecentFiles          []EmployeeFileSummary  `json:"recentFiles"`
	SentimentTrend       []MonthlySentiment     `json:"sentimentTrend"`
}

type AlertMessage struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	IsFlagged bool   `json:"isFlagged"`
}

type AlertDetail struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Type         AlertType      `json:"type"`
	EmployeeID   string         `json:"employeeId"`
	EmployeeName string         `json:"employeeName"`
	Participants []string       `json:"participants"`
	Messages     []AlertMessage `json:"messages"`
	Severity     Severity       `json:"severity"`
	Timestamp    string         `json:"timestamp"`
	IsResolved   bool           `json:"isResolved"`
	ResolvedAt   *string        `json:"resolvedAt,omitempty"`
}

type PerformanceDrag struct {
	Employee     string  `json:"employee"`
	Negativity   int     `json:"negativity"`
	ResponseTime float64 `json:"responseTime"`
	Size         int     `json:"size"`
}

type EfficiencyReport struct {
	TaskCompletionRate int     `json:"taskCompletionRate"`
	AvgResponseTime    float64 `json:"avgResponseTime"`
	MeetingOverload    int     `json:"meetingOverload"`
}

type ResponseTimeItem struct {
	Employee    string  `json:"employee"`
	AvgResponse float64 `json:"avgResponse"`
	Benchmark   float64 `json:"benchmark"`
}

type NegativeCommunicationItem struct {
	Employee           string `json:"employee"`
	NegativePercentage int    `json:"negativePercentage"`
}

type OverdueTaskItem struct {
	Employee string `json:"employee"`
	Count    int    `json:"count"`
}

type RetentionRateReport struct {
	Rate            int `json:"rate"`
	IndustryAverage int `json:"industryAverage"`
	Trend           int `json:"trend"`
	TotalEmployees  int `json:"totalEmployees"`
	AtRisk          int `json:"atRisk"`
}

type FlightRiskItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Risk       int      `json:"risk"`
	Department string   `json:"department"`
	Tenure     string   `json:"tenure"`
	Factors    []string `json:"factors"`
}

type MonthlyVolume struct {
	Month  string `json:"month"`
	Volume int    `json:"volume"`
}

type CommunicationReport struct {
	Total          int             `json:"total"`
	EngagementRate int             `json:"engagementRate"`
	Trend          int             `json:"trend"`
	VolumeByMonth  []MonthlyVolume `json:"volumeByMonth"`
}

type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type RetentionSentimentReport struct {
	Distribution   []NamedValue     `json:"distribution"`
	HistoricalData []SentimentPoint `json:"historicalData"`
	Trend          int              `json:"trend"`
}

type EmployeeMeetingLoad struct {
	Employee  string `json:"employee"`
	Meetings  int    `json:"meetings"`
	FocusTime int    `json:"focusTime"`
}

type MeetingReport struct {
	AverageMeetings  int                   `json:"averageMeetings"`
	AverageFocusTime int                   `json:"averageFocusTime"`
	OptimalBalance   int                   `json:"optimalBalance"`
	EmployeeData     []EmployeeMeetingLoad `json:"employeeData"`
}

type ComplaintPeriod struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

type HarassmentItem struct {
	ID             string   `json:"id"`
	Sender         string   `json:"sender"`
	Receiver       string   `json:"receiver"`
	Content        string   `json:"content"`
	Timestamp      string   `json:"timestamp"`
	SentimentScore float64  `json:"sentimentScore"`
	Severity       Severity `json:"severity"`
}

type SecurityRiskItem struct {
	ID                  string   `json:"id"`
	EmployeeID          string   `json:"employeeId"`
	EmployeeName        string   `json:"employeeName"`
	RiskLevel           Severity `json:"riskLevel"`
	RiskScore           int      `json:"riskScore"`
	ActivityDescription string   `json:"activityDescription"`
	Timestamp           string   `json:"timestamp"`
}
