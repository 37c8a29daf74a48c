package school

const courseSchema = `cnum        varchar(5) not null,
cname       varchar(40) not null,
primary key (cnum)`

const professorSchema = `pnum        integer not null,
pname       varchar(20) not null,
office      varchar(10) not null,
dept        varchar(30) not null,
primary key (pnum)`

const studentSchema = `snum        integer not null,
sname       varchar(20) not null,
year        integer not null,
primary key (snum)`

const classSchema = `cnum        varchar(5) not null,
term        varchar(5) not null,
section     integer not null,
pnum        integer not null,
primary key (cnum, term, section),
foreign key (cnum) references course (cnum),
foreign key (pnum) references professor (pnum)`

const enrollmentSchema = `snum        integer not null,
cnum        varchar(5) not null,
term        varchar(5) not null,
section     integer not null,
primary key (snum, cnum, term, section),
foreign key (snum) references student (snum),
foreign key (cnum, term, section) references class (cnum, term, section)`

const markSchema = `snum        integer not null,
cnum        varchar(5) not null,
term        varchar(5) not null,
section     integer not null,
grade       integer not null,
primary key (snum, cnum, term, section),
foreign key (snum, cnum, term, section)
references enrollment (snum, cnum, term, section)`

const scheduleSchema = `cnum        varchar(5) not null,
term        varchar(5) not null,
section     integer not null,
day         varchar(10) not null,
time        varchar(5) not null,
room        varchar(10) not null,
primary key (cnum, term, section, day, time),
foreign key (cnum, term, section)
references class (cnum, term, section)`
